package models

// UserProfile is the identity record of the signed-in actor.
type UserProfile struct {
	ID                     string           `json:"id"`
	Name                   string           `json:"name"`
	Email                  string           `json:"email"`
	Phone                  string           `json:"phone"`
	Avatar                 string           `json:"avatar"`
	IsServiceProvider      bool             `json:"isServiceProvider"`
	IsAdmin                bool             `json:"isAdmin,omitempty"`
	ServiceProviderProfile *ProviderProfile `json:"serviceProviderProfile,omitempty"`
}

// ProviderProfile is present on a profile iff the user has provider capability.
type ProviderProfile struct {
	Service       string  `json:"service"`
	HourlyRate    float64 `json:"hourlyRate"`
	IsAvailable   bool    `json:"isAvailable"`
	Rating        float64 `json:"rating"`
	CompletedJobs int     `json:"completedJobs"`
}

// ProfileUpdate is a partial profile update. Nil fields are left untouched.
// Rating and CompletedJobs are maintained by the backend and rejected when set.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`

	Service     *string  `json:"service,omitempty"`
	HourlyRate  *float64 `json:"hourlyRate,omitempty"`
	IsAvailable *bool    `json:"isAvailable,omitempty"`

	Rating        *float64 `json:"rating,omitempty"`
	CompletedJobs *int     `json:"completedJobs,omitempty"`
}

// Empty reports whether the update carries no field at all.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil &&
		u.Service == nil && u.HourlyRate == nil && u.IsAvailable == nil &&
		u.Rating == nil && u.CompletedJobs == nil
}

// TouchesProviderFields reports whether the update writes the provider sub-record.
func (u ProfileUpdate) TouchesProviderFields() bool {
	return u.Service != nil || u.HourlyRate != nil || u.IsAvailable != nil
}

// Registration is the sign-up payload.
type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	IsProvider      bool   `json:"is_provider,omitempty"`
}
