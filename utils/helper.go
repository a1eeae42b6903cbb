package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
)

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func GenerateUniqueFilename() string {

	timestamp := time.Now().UnixNano()

	random := rand.Intn(1000)

	uniqueFilename := fmt.Sprintf("%d_%d", timestamp, random)

	return uniqueFilename
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"request": "is invalid"}
	}

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

func DereferencePtr[T any](ptr *T, def T) T {
	if ptr == nil {
		return def
	}
	return *ptr
}
