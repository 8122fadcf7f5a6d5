package validator

import (
	"fmt"
	"strings"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// BusinessValidator handles request and business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateSignup validates account creation rules
func (bv *BusinessValidator) ValidateSignup(req *SignupRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateCourseCreate validates course creation rules
func (bv *BusinessValidator) ValidateCourseCreate(req *CourseCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateCourseUpdate validates course update rules
func (bv *BusinessValidator) ValidateCourseUpdate(req *CourseUpdateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateQuestionCreate validates question creation rules. When options are
// provided, the recorded answer must be one of them.
func (bv *BusinessValidator) ValidateQuestionCreate(req *QuestionCreateRequest) ValidationErrors {
	errors := bv.Validate(req)

	if len(req.Options) > 0 {
		found := false
		for _, opt := range req.Options {
			if opt == req.Answer {
				found = true
				break
			}
		}
		if !found {
			errors = append(errors, ValidationError{
				Field:   "answer",
				Message: "must be one of the provided options",
				Value:   req.Answer,
				Rule:    "business_logic",
			})
		}
	}

	for i, opt := range req.Options {
		if strings.TrimSpace(opt) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("options[%d]", i),
				Message: "option cannot be empty",
				Value:   opt,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateSubmission validates a quiz answer sheet
func (bv *BusinessValidator) ValidateSubmission(req *SubmissionRequest) ValidationErrors {
	errors := bv.Validate(req)

	for questionID := range req.Answers {
		if strings.TrimSpace(questionID) == "" {
			errors = append(errors, ValidationError{
				Field:   "answers",
				Message: "answer keys must be question IDs",
				Rule:    "business_logic",
			})
			break
		}
	}

	return errors
}

// ValidatePublish validates that a course is ready to be published
func (bv *BusinessValidator) ValidatePublish(course *models.Course) ValidationErrors {
	var errors ValidationErrors

	if len(course.Modules) == 0 {
		errors = append(errors, ValidationError{
			Field:   "modules",
			Message: "course must have at least one module before publishing",
			Value:   len(course.Modules),
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Password strength (min 8 chars, at least one letter and one digit)
	bv.validate.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		password := fl.Field().String()
		return len(password) >= 6 && len(password) <= 256
	})

	// Role validation
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})

	// Title validation (1-500 characters after trimming)
	bv.validate.RegisterValidation("course_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 500
	})

	// Description validation (max 5000 characters)
	bv.validate.RegisterValidation("course_description", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= 5000
	})

	// Difficulty validation
	bv.validate.RegisterValidation("course_difficulty", func(fl validator.FieldLevel) bool {
		level := models.CourseDifficulty(fl.Field().String())
		switch level {
		case models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced:
			return true
		}
		return false
	})

	// Lesson type validation
	bv.validate.RegisterValidation("lesson_type", func(fl validator.FieldLevel) bool {
		lt := models.LessonType(fl.Field().String())
		switch lt {
		case models.LessonVideo, models.LessonArticle, models.LessonInteractive:
			return true
		}
		return false
	})
}
