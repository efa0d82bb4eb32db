package skill

import "errors"

var (
	ErrSkillNotFound = errors.New("skill not found")
	ErrInvalidInput  = errors.New("invalid input")
)
