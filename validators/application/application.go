package applicationValidator

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"noc/config"
	"noc/middleware"
	"noc/models"

	"github.com/gofiber/fiber/v2"
)

// Submission carries the parsed and validated student form.
type Submission struct {
	RegistrationNumber string
	Name               string
	Email              string
	Mobile             string
	Department         string
	Section            string
	Semester           int
	Gender             string
	NocType            string
	OfferType          string
	InternshipType     string
	Cgpa               string
	Backlogs           string
	CompanyName        string
	CompanyCity        string
	CompanyState       string
	CompanyPin         string
	HrdEmail           string
	HrdNumber          string
	Stipend            float64
	PpoPackage         *float64
	StartDate          time.Time
	EndDate            time.Time
	TermsAccepted      bool
}

var (
	mobileRegex   = regexp.MustCompile(`^[0-9]{10}$`)
	cgpaRegex     = regexp.MustCompile(`^[0-9](\.[0-9]{1,2})?$|^10(\.0{1,2})?$`)
	backlogsRegex = regexp.MustCompile(`^[0-9]+$`)
	companyRegex  = regexp.MustCompile(`^[A-Z][a-zA-Z\s]*$`)
	pinRegex      = regexp.MustCompile(`^[0-9]{6}$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// InstitutionalEmailRegex matches firstname.identifier@<institution-domain>.
func InstitutionalEmailRegex() *regexp.Regexp {
	domain := regexp.QuoteMeta(config.AppConfig.InstitutionDomain)
	return regexp.MustCompile(`^[a-zA-Z]+\.[a-zA-Z0-9]+@` + domain + `$`)
}

// ValidateSubmission applies the full field matrix and returns a field->message
// map; empty map means the submission is acceptable.
func ValidateSubmission(s *Submission) map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(s.RegistrationNumber) == "" {
		errors["registrationNumber"] = "Registration Number is required!"
	}
	if strings.TrimSpace(s.Name) == "" {
		errors["name"] = "Name is required!"
	}
	if s.Email == "" || !InstitutionalEmailRegex().MatchString(s.Email) {
		errors["email"] = "Enter your official mail id!"
	}
	if !mobileRegex.MatchString(s.Mobile) {
		errors["mobile"] = "Mobile Number must be 10 digits!"
	}
	if strings.TrimSpace(s.Department) == "" {
		errors["department"] = "Department is required!"
	}
	if strings.TrimSpace(s.Section) == "" {
		errors["section"] = "Section is required!"
	}
	if s.Semester <= 0 {
		errors["semester"] = "Semester is required!"
	}
	if strings.TrimSpace(s.Gender) == "" {
		errors["gender"] = "Gender is required!"
	}

	switch s.NocType {
	case models.NocTypeSpecific:
		if !cgpaRegex.MatchString(s.Cgpa) {
			errors["cgpa"] = "Enter valid CGPA between 0-10!"
		}
		if !backlogsRegex.MatchString(s.Backlogs) {
			errors["backlogs"] = "Enter valid number of backlogs!"
		}
		if s.CompanyName == "" || !companyRegex.MatchString(s.CompanyName) {
			errors["companyName"] = "The first letter of the company name should be capital!"
		}
		if strings.TrimSpace(s.CompanyCity) == "" {
			errors["companyCity"] = "City is required!"
		}
		if strings.TrimSpace(s.CompanyState) == "" {
			errors["companyState"] = "State is required!"
		}
		if !pinRegex.MatchString(s.CompanyPin) {
			errors["companyPin"] = "PIN code must be 6 digits!"
		}
	case models.NocTypeGeneric:
		// Generic NOCs carry no company binding
	default:
		errors["nocType"] = "NOC Type is required!"
	}

	if s.OfferType != models.OfferTypeOnCampus && s.OfferType != models.OfferTypeOffCampus {
		errors["offerType"] = "Offer Type is required!"
	}

	switch s.InternshipType {
	case models.InternshipWithPPO:
		if s.PpoPackage == nil || *s.PpoPackage <= 0 {
			errors["ppoPackage"] = "PPO package is required and must be positive!"
		}
	case models.InternshipPlain:
	default:
		errors["internshipType"] = "Internship type is required!"
	}

	if s.Stipend < 0 {
		errors["stipend"] = "Stipend cannot be negative!"
	}

	if s.StartDate.IsZero() {
		errors["startDate"] = "Start date is required!"
	}
	if s.EndDate.IsZero() {
		errors["endDate"] = "End date is required!"
	} else if !s.StartDate.IsZero() && !s.EndDate.After(s.StartDate) {
		errors["endDate"] = "End date must be after start date!"
	}

	if s.HrdEmail == "" && s.HrdNumber == "" {
		errors["hrdEmail"] = "Either HRD Email or HRD Number is required!"
	}
	if s.HrdEmail != "" && !emailRegex.MatchString(s.HrdEmail) {
		errors["hrdEmail"] = "Enter a valid email!"
	}
	if s.HrdNumber != "" && !mobileRegex.MatchString(s.HrdNumber) {
		errors["hrdNumber"] = "Enter a valid 10-digit number!"
	}

	if !s.TermsAccepted {
		errors["termsAccepted"] = "You must accept the terms and conditions!"
	}

	return errors
}

func parseSubmission(c *fiber.Ctx) (*Submission, map[string]string) {
	errors := make(map[string]string)
	s := &Submission{
		RegistrationNumber: strings.TrimSpace(c.FormValue("registrationNumber")),
		Name:               strings.TrimSpace(c.FormValue("name")),
		Email:              strings.TrimSpace(c.FormValue("email")),
		Mobile:             strings.TrimSpace(c.FormValue("mobile")),
		Department:         strings.TrimSpace(c.FormValue("department")),
		Section:            strings.TrimSpace(c.FormValue("section")),
		Gender:             strings.TrimSpace(c.FormValue("gender")),
		NocType:            strings.TrimSpace(c.FormValue("nocType")),
		OfferType:          strings.TrimSpace(c.FormValue("offerType")),
		InternshipType:     strings.TrimSpace(c.FormValue("internshipType")),
		Cgpa:               strings.TrimSpace(c.FormValue("cgpa")),
		Backlogs:           strings.TrimSpace(c.FormValue("backlogs")),
		CompanyName:        strings.TrimSpace(c.FormValue("companyName")),
		CompanyCity:        strings.TrimSpace(c.FormValue("companyCity")),
		CompanyState:       strings.TrimSpace(c.FormValue("companyState")),
		CompanyPin:         strings.TrimSpace(c.FormValue("companyPin")),
		HrdEmail:           strings.TrimSpace(c.FormValue("hrdEmail")),
		HrdNumber:          strings.TrimSpace(c.FormValue("hrdNumber")),
	}

	if v := c.FormValue("semester"); v != "" {
		if sem, err := strconv.Atoi(v); err == nil {
			s.Semester = sem
		} else {
			errors["semester"] = "Enter a valid semester!"
		}
	}

	if v := c.FormValue("stipend"); v == "" {
		errors["stipend"] = "Stipend amount is required!"
	} else if stipend, err := strconv.ParseFloat(v, 64); err == nil {
		s.Stipend = stipend
	} else {
		errors["stipend"] = "Please enter a valid number!"
	}

	if v := c.FormValue("ppoPackage"); v != "" {
		if ppo, err := strconv.ParseFloat(v, 64); err == nil {
			s.PpoPackage = &ppo
		} else {
			errors["ppoPackage"] = "Please enter a valid number!"
		}
	}

	if v := c.FormValue("startDate"); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			s.StartDate = d
		} else {
			errors["startDate"] = "Enter a valid start date!"
		}
	}
	if v := c.FormValue("endDate"); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			s.EndDate = d
		} else {
			errors["endDate"] = "Enter a valid end date!"
		}
	}

	s.TermsAccepted = c.FormValue("termsAccepted") == "true"

	return s, errors
}

// Submit validator middleware for the multipart student form
func Submit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errors := parseSubmission(c)

		for field, msg := range ValidateSubmission(s) {
			if _, exists := errors[field]; !exists {
				errors[field] = msg
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubmission", s)
		return c.Next()
	}
}

// SendOTP validator middleware
func SendOTP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Email string `json:"email"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Email == "" || !InstitutionalEmailRegex().MatchString(reqData.Email) {
			errors["email"] = "Enter your official mail id!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEmail", reqData.Email)
		return c.Next()
	}
}

// VerifyOTP validator middleware
func VerifyOTP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Email string `json:"email"`
			Code  string `json:"code"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Email == "" || !InstitutionalEmailRegex().MatchString(reqData.Email) {
			errors["email"] = "Enter your official mail id!"
		}
		if len(reqData.Code) != 6 {
			errors["code"] = "OTP must be 6 digits!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEmail", reqData.Email)
		c.Locals("validatedCode", reqData.Code)
		return c.Next()
	}
}
