package request

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/youcode/tricol-fournisseurs/internal/application/service"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	icePattern   = regexp.MustCompile(`^[0-9]{15}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("ice", func(fl validator.FieldLevel) bool {
		return icePattern.MatchString(fl.Field().String())
	})
	return v
}

// FournisseurRequest is the body of POST and PUT /fournisseurs
type FournisseurRequest struct {
	Company string `json:"societe"`
	Address string `json:"adresse"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Phone   string `json:"telephone"`
	City    string `json:"ville"`
	TaxID   string `json:"ice"`
}

type rule struct {
	tag     string
	message string
}

type fieldRules struct {
	field string
	value func(*FournisseurRequest) string
	rules []rule
}

// Rules are evaluated in order; the first failing rule gives the field's message.
var fournisseurRules = []fieldRules{
	{
		field: "societe",
		value: func(r *FournisseurRequest) string { return r.Company },
		rules: []rule{
			{"notblank", "La société est obligatoire"},
			{"min=2,max=100", "La société doit contenir entre 2 et 100 caractères"},
		},
	},
	{
		field: "adresse",
		value: func(r *FournisseurRequest) string { return r.Address },
		rules: []rule{
			{"notblank", "L'adresse est obligatoire"},
			{"max=255", "L'adresse ne peut pas dépasser 255 caractères"},
		},
	},
	{
		field: "contact",
		value: func(r *FournisseurRequest) string { return r.Contact },
		rules: []rule{
			{"notblank", "Le contact est obligatoire"},
			{"max=100", "Le contact ne peut pas dépasser 100 caractères"},
		},
	},
	{
		field: "email",
		value: func(r *FournisseurRequest) string { return r.Email },
		rules: []rule{
			{"notblank", "L'email est obligatoire"},
			{"email", "L'email doit être valide"},
			{"max=100", "L'email ne peut pas dépasser 100 caractères"},
		},
	},
	{
		field: "telephone",
		value: func(r *FournisseurRequest) string { return r.Phone },
		rules: []rule{
			{"notblank", "Le téléphone est obligatoire"},
			{"phone", "Le téléphone doit être valide (10-15 chiffres)"},
		},
	},
	{
		field: "ville",
		value: func(r *FournisseurRequest) string { return r.City },
		rules: []rule{
			{"notblank", "La ville est obligatoire"},
			{"max=100", "La ville ne peut pas dépasser 100 caractères"},
		},
	},
	{
		field: "ice",
		value: func(r *FournisseurRequest) string { return r.TaxID },
		rules: []rule{
			{"notblank", "L'ICE est obligatoire"},
			{"ice", "L'ICE doit contenir exactement 15 chiffres"},
		},
	},
}

// Validate checks every field and returns one message per invalid field,
// or nil when the request is valid.
func (r *FournisseurRequest) Validate() map[string]string {
	var errs map[string]string
	for _, fr := range fournisseurRules {
		value := fr.value(r)
		for _, rl := range fr.rules {
			if err := validate.Var(value, rl.tag); err != nil {
				if errs == nil {
					errs = make(map[string]string)
				}
				errs[fr.field] = rl.message
				break
			}
		}
	}
	return errs
}

// ToInput converts the request into the service input
func (r *FournisseurRequest) ToInput() *service.FournisseurInput {
	return &service.FournisseurInput{
		Company: r.Company,
		Address: r.Address,
		Contact: r.Contact,
		Email:   r.Email,
		Phone:   r.Phone,
		City:    r.City,
		TaxID:   r.TaxID,
	}
}
