package handlers

import (
	"time"

	"levi/database/repository"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Store     repository.Store
	JWTSecret []byte
	MediaDir  string

	// Auth endpoints
	LoginHandler    gin.HandlerFunc
	RegisterHandler gin.HandlerFunc

	// Catalog endpoints
	ListServicesHandler   gin.HandlerFunc
	GetServiceHandler     gin.HandlerFunc
	ListCategoriesHandler gin.HandlerFunc

	// Booking endpoints
	ListBookingsHandler  gin.HandlerFunc
	CreateBookingHandler gin.HandlerFunc
	UpdateBookingHandler gin.HandlerFunc
	StatusChangesHandler gin.HandlerFunc

	// Profile endpoints
	GetProfileHandler    gin.HandlerFunc
	UpdateProfileHandler gin.HandlerFunc
}

// NewHandlerBundle wires every handler against store.
func NewHandlerBundle(store repository.Store, secret []byte, tokenTTL time.Duration, mediaDir string) *HandlerBundle {
	auth := NewAuthHandler(store, secret, tokenTTL)
	catalog := NewCatalogHandler(store)
	bookings := NewBookingHandler(store)
	profile := NewProfileHandler(store, mediaDir)

	return &HandlerBundle{
		Store:     store,
		JWTSecret: secret,
		MediaDir:  mediaDir,

		LoginHandler:    auth.LoginHandler,
		RegisterHandler: auth.RegisterHandler,

		ListServicesHandler:   catalog.ListServicesHandler,
		GetServiceHandler:     catalog.GetServiceHandler,
		ListCategoriesHandler: catalog.ListCategoriesHandler,

		ListBookingsHandler:  bookings.ListBookingsHandler,
		CreateBookingHandler: bookings.CreateBookingHandler,
		UpdateBookingHandler: bookings.UpdateBookingHandler,
		StatusChangesHandler: bookings.StatusChangesHandler,

		GetProfileHandler:    profile.GetProfileHandler,
		UpdateProfileHandler: profile.UpdateProfileHandler,
	}
}
