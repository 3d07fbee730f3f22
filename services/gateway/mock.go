package gateway

import (
	"strings"

	"levi/models"
)

// Fallback datasets served by read operations while the backend is unreachable.
// Every accessor returns a fresh copy.

var fallbackProviders = []models.ServiceProvider{
	{ID: "1", Name: "John Martinez", Service: "Plumber", Rating: 4.8, Distance: 0.5, Latitude: 37.7849, Longitude: -122.4094, IsAvailable: true, Phone: "+1 555-0101", Avatar: "https://i.pravatar.cc/150?img=12", HourlyRate: 75, CompletedJobs: 156, IsServiceProvider: true},
	{ID: "2", Name: "Sarah Johnson", Service: "Electrician", Rating: 4.9, Distance: 1.2, Latitude: 37.7899, Longitude: -122.4074, IsAvailable: true, Phone: "+1 555-0102", Avatar: "https://i.pravatar.cc/150?img=47", HourlyRate: 85, CompletedJobs: 203, IsServiceProvider: true},
	{ID: "3", Name: "Mike Chen", Service: "Carpenter", Rating: 4.7, Distance: 2.1, Latitude: 37.7819, Longitude: -122.4134, IsAvailable: false, Phone: "+1 555-0103", Avatar: "https://i.pravatar.cc/150?img=33", HourlyRate: 70, CompletedJobs: 98, IsServiceProvider: true},
	{ID: "4", Name: "Emily Davis", Service: "House Cleaner", Rating: 4.9, Distance: 0.8, Latitude: 37.7869, Longitude: -122.4064, IsAvailable: true, Phone: "+1 555-0104", Avatar: "https://i.pravatar.cc/150?img=32", HourlyRate: 45, CompletedJobs: 312, IsServiceProvider: true},
	{ID: "5", Name: "David Wilson", Service: "Painter", Rating: 4.6, Distance: 3.5, Latitude: 37.7789, Longitude: -122.4154, IsAvailable: true, Phone: "+1 555-0105", Avatar: "https://i.pravatar.cc/150?img=15", HourlyRate: 60, CompletedJobs: 127, IsServiceProvider: true},
	{ID: "6", Name: "Lisa Anderson", Service: "Gardener", Rating: 4.8, Distance: 1.5, Latitude: 37.7879, Longitude: -122.4114, IsAvailable: false, Phone: "+1 555-0106", Avatar: "https://i.pravatar.cc/150?img=45", HourlyRate: 50, CompletedJobs: 89, IsServiceProvider: true},
	{ID: "7", Name: "Robert Taylor", Service: "HVAC Technician", Rating: 4.9, Distance: 2.8, Latitude: 37.7829, Longitude: -122.4044, IsAvailable: true, Phone: "+1 555-0107", Avatar: "https://i.pravatar.cc/150?img=60", HourlyRate: 90, CompletedJobs: 176, IsServiceProvider: true},
	{ID: "8", Name: "Jennifer Lee", Service: "Locksmith", Rating: 4.7, Distance: 1.9, Latitude: 37.7859, Longitude: -122.4124, IsAvailable: true, Phone: "+1 555-0108", Avatar: "https://i.pravatar.cc/150?img=20", HourlyRate: 65, CompletedJobs: 142, IsServiceProvider: true},
}

var fallbackBookings = []models.Booking{
	{ID: "1", ServiceProviderID: "1", ServiceProviderName: "John Martinez", ServiceType: "Plumber", Date: "12/10/2025", Time: "2:00 PM", Status: models.StatusConfirmed, Price: 150, Avatar: "https://i.pravatar.cc/150?img=12"},
	{ID: "2", ServiceProviderID: "4", ServiceProviderName: "Emily Davis", ServiceType: "House Cleaner", Date: "12/12/2025", Time: "10:00 AM", Status: models.StatusPending, Price: 90, Avatar: "https://i.pravatar.cc/150?img=32"},
	{ID: "3", ServiceProviderID: "2", ServiceProviderName: "Sarah Johnson", ServiceType: "Electrician", Date: "12/05/2025", Time: "4:00 PM", Status: models.StatusCompleted, Price: 170, Avatar: "https://i.pravatar.cc/150?img=47"},
}

var fallbackProfile = models.UserProfile{
	ID:                "user1",
	Name:              "Alex Thompson",
	Email:             "alex.thompson@email.com",
	Phone:             "+1 (555) 123-4567",
	Avatar:            "https://i.pravatar.cc/150?img=68",
	IsServiceProvider: false,
}

var fallbackCategories = []models.Category{
	{ID: "1", Name: "Plumbing", Description: "Plumbing services including repairs and installations", Icon: "water-outline"},
	{ID: "2", Name: "Electrical", Description: "Electrical repairs, wiring, and safety inspections", Icon: "flash-outline"},
	{ID: "3", Name: "House Cleaning", Description: "Standard and deep cleaning for homes", Icon: "sparkles-outline"},
	{ID: "4", Name: "Gardening", Description: "Lawn care, landscaping, and gardening", Icon: "leaf-outline"},
	{ID: "5", Name: "Moving", Description: "Help with moving boxes and furniture", Icon: "car-outline"},
	{ID: "6", Name: "Painting", Description: "Interior and external painting", Icon: "color-palette-outline"},
	{ID: "7", Name: "Carpentry", Description: "Woodwork, repairs, and custom furniture", Icon: "construct-outline"},
	{ID: "8", Name: "HVAC", Description: "Heating, Ventilation, and Air Conditioning services", Icon: "thermometer-outline"},
}

// MockProviders returns the fallback providers whose name or service contains query.
func MockProviders(query string) []models.ServiceProvider {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.ServiceProvider, 0, len(fallbackProviders))
	for _, p := range fallbackProviders {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Service), q) {
			out = append(out, p)
		}
	}
	return out
}

// MockBookings returns the fallback bookings passing filter.
func MockBookings(filter models.BookingFilter) []models.Booking {
	out := make([]models.Booking, 0, len(fallbackBookings))
	for _, b := range fallbackBookings {
		if filter.Matches(b.Status) {
			out = append(out, b)
		}
	}
	return out
}

// MockProfile returns the fallback profile.
func MockProfile() models.UserProfile {
	return fallbackProfile
}

// MockCategories returns the fallback categories.
func MockCategories() []models.Category {
	return append([]models.Category(nil), fallbackCategories...)
}
