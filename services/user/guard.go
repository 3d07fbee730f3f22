package user

import (
	"levi/models"
	"levi/utils"
)

// AuthorizeProfileUpdate checks that role may write every field the update carries.
// Consumers write identity fields only; providers and admins also the provider sub-record.
// Rating and completed jobs are backend-maintained and never writable.
func AuthorizeProfileUpdate(role models.Role, u models.ProfileUpdate) error {
	const op = "user.AuthorizeProfileUpdate"

	if u.Empty() {
		return utils.NewError(utils.KindValidation, op, "profile update carries no field")
	}
	if _, err := models.ParseRole(string(role)); err != nil {
		return utils.WrapError(utils.KindAuth, op, err, "no valid actor role")
	}
	if u.Rating != nil || u.CompletedJobs != nil {
		return utils.NewError(utils.KindAuth, op, "rating and completed jobs are not writable")
	}
	if u.TouchesProviderFields() && role == models.RoleUser {
		return utils.NewError(utils.KindAuth, op, "provider fields require the provider role")
	}
	if u.Name != nil && *u.Name == "" {
		return utils.NewError(utils.KindValidation, op, "name cannot be empty")
	}
	if u.Email != nil && *u.Email == "" {
		return utils.NewError(utils.KindValidation, op, "email cannot be empty")
	}
	if u.HourlyRate != nil && *u.HourlyRate < 0 {
		return utils.NewError(utils.KindValidation, op, "hourly rate cannot be negative")
	}
	return nil
}
