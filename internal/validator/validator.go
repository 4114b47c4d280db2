// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("activity_module", validateActivityModule)
		_ = v.RegisterValidation("cost_category", validateCostCategory)
		_ = v.RegisterValidation("payment_source", validatePaymentSource)
		_ = v.RegisterValidation("entry_kind", validateEntryKind)
		_ = v.RegisterValidation("window_mode", validateWindowMode)
		_ = v.RegisterValidation("subscription_plan", validateSubscriptionPlan)
		_ = v.RegisterValidation("subscription_status", validateSubscriptionStatus)
	}
}

func validateActivityModule(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "breeding", "feeding", "health", "housing", "planting",
		"harvesting", "payroll", "event", "asset", "soil_test", "plot":
		return true
	}
	return false
}

func validateCostCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "material_input", "labor", "utilities", "equipment_rental",
		"veterinary", "transport", "produce_sale", "other":
		return true
	}
	return false
}

func validatePaymentSource(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "cash", "bank_transfer", "mobile_money", "credit":
		return true
	}
	return false
}

func validateEntryKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "expense", "income":
		return true
	}
	return false
}

func validateWindowMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "explicit", "rolling12", "farming_year", "season":
		return true
	}
	return false
}

func validateSubscriptionPlan(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "starter", "grower", "enterprise":
		return true
	}
	return false
}

func validateSubscriptionStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "trialing", "active", "past_due", "canceled":
		return true
	}
	return false
}
