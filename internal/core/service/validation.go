package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared field-rule instance backing the per-entity checks.
var validate = validator.New()

// anyEmpty reports whether any of the values is empty or whitespace.
func anyEmpty(values ...string) bool {
	for _, v := range values {
		if validate.Var(strings.TrimSpace(v), "required") != nil {
			return true
		}
	}
	return false
}

// invalidRole reports whether role is outside the closed role set.
func invalidRole(role string) bool {
	return validate.Var(role, "oneof=commercial management support") != nil
}

// invalidTotalPrice reports whether a total price breaks the > 0 bound.
func invalidTotalPrice(price float64) bool {
	return validate.Var(price, "gt=0") != nil
}

// negativeRestToPay reports whether a rest-to-pay amount is below zero.
func negativeRestToPay(rest float64) bool {
	return validate.Var(rest, "gte=0") != nil
}
