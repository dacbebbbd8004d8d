package service

import "errors"

// Service-level errors. Handlers translate these to API error responses.
var (
	ErrEstimateNotFound      = errors.New("estimate not found")
	ErrEstimateAlreadySigned = errors.New("estimate is already signed")
	ErrEstimateNotPending    = errors.New("estimate is not in pending status")
	ErrInvalidSignature      = errors.New("signature is missing or not an image payload")
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrSettingsNotFound      = errors.New("company settings not configured")
)
