package service

import "errors"

var ErrMedicationNotFound = errors.New("medication not found")
