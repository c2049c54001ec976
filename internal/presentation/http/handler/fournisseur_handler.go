package handler

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/youcode/tricol-fournisseurs/internal/application/service"
	"github.com/youcode/tricol-fournisseurs/internal/domain/entity"
	"github.com/youcode/tricol-fournisseurs/internal/presentation/http/dto/request"
	"github.com/youcode/tricol-fournisseurs/internal/presentation/http/dto/response"
	"github.com/youcode/tricol-fournisseurs/pkg/apperror"
)

// FournisseurHandler handles supplier-related HTTP requests
type FournisseurHandler struct {
	fournisseurService *service.FournisseurService
}

// NewFournisseurHandler creates a new supplier handler
func NewFournisseurHandler(fournisseurService *service.FournisseurService) *FournisseurHandler {
	return &FournisseurHandler{fournisseurService: fournisseurService}
}

// List handles GET /fournisseurs. Parameters are honoured in this order:
// search, ville, sortBy=nom|societe, sortBy=ville; otherwise the full list.
func (h *FournisseurHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	search := queryParam(c, "search")
	ville := queryParam(c, "ville")
	sortBy := queryParam(c, "sortBy")

	var (
		fournisseurs []entity.Fournisseur
		err          error
	)
	switch {
	case search != "":
		fournisseurs, err = h.fournisseurService.Search(ctx, search)
	case ville != "":
		fournisseurs, err = h.fournisseurService.FindByCity(ctx, ville)
	case strings.EqualFold(sortBy, "nom") || strings.EqualFold(sortBy, "societe"):
		fournisseurs, err = h.fournisseurService.GetAllSortedByName(ctx)
	case strings.EqualFold(sortBy, "ville"):
		fournisseurs, err = h.fournisseurService.GetAllSortedByCityAndName(ctx)
	default:
		fournisseurs, err = h.fournisseurService.GetAll(ctx)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fournisseurs récupérés avec succès", fournisseurs)
}

// Get handles GET /fournisseurs/:id
func (h *FournisseurHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "ID de fournisseur invalide")
		return
	}

	fournisseur, err := h.fournisseurService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if fournisseur == nil {
		response.NotFound(c, fmt.Sprintf("Fournisseur non trouvé avec l'ID: %d", id))
		return
	}

	response.OK(c, "Fournisseur récupéré avec succès", fournisseur)
}

// Create handles POST /fournisseurs
func (h *FournisseurHandler) Create(c *gin.Context) {
	req, ok := bindFournisseur(c)
	if !ok {
		return
	}

	fournisseur, err := h.fournisseurService.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Fournisseur créé avec succès", fournisseur)
}

// Update handles PUT /fournisseurs/:id
func (h *FournisseurHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "ID de fournisseur invalide")
		return
	}

	req, ok := bindFournisseur(c)
	if !ok {
		return
	}

	fournisseur, err := h.fournisseurService.Update(c.Request.Context(), id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fournisseur mis à jour avec succès", fournisseur)
}

// Delete handles DELETE /fournisseurs/:id
func (h *FournisseurHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "ID de fournisseur invalide")
		return
	}

	if err := h.fournisseurService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fournisseur supprimé avec succès", nil)
}

// Count handles GET /fournisseurs/count with an optional ville scope
func (h *FournisseurHandler) Count(c *gin.Context) {
	ctx := c.Request.Context()

	if ville := queryParam(c, "ville"); ville != "" {
		count, err := h.fournisseurService.CountByCity(ctx, ville)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Nombre de fournisseurs dans la ville "+ville, count)
		return
	}

	count, err := h.fournisseurService.Count(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Nombre total de fournisseurs", count)
}

// SearchByCompany handles GET /fournisseurs/recherche?societe=
func (h *FournisseurHandler) SearchByCompany(c *gin.Context) {
	text := queryParam(c, "societe")
	if text == "" {
		response.ValidationError(c, map[string]string{"societe": "Le paramètre societe est obligatoire"})
		return
	}

	fournisseurs, err := h.fournisseurService.SearchByCompanyKeyword(c.Request.Context(), text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Fournisseurs récupérés avec succès", fournisseurs)
}

// GetByTaxID handles GET /fournisseurs/ice/:ice
func (h *FournisseurHandler) GetByTaxID(c *gin.Context) {
	ice := c.Param("ice")
	fournisseur, err := h.fournisseurService.FindByTaxID(c.Request.Context(), ice)
	if err != nil {
		response.Error(c, err)
		return
	}
	if fournisseur == nil {
		response.NotFound(c, "Fournisseur non trouvé avec l'ICE: "+ice)
		return
	}
	response.OK(c, "Fournisseur récupéré avec succès", fournisseur)
}

// GetByCompany handles GET /fournisseurs/societe/:societe
func (h *FournisseurHandler) GetByCompany(c *gin.Context) {
	societe := c.Param("societe")
	fournisseur, err := h.fournisseurService.FindByCompany(c.Request.Context(), societe)
	if err != nil {
		response.Error(c, err)
		return
	}
	if fournisseur == nil {
		response.NotFound(c, "Fournisseur non trouvé avec la société: "+societe)
		return
	}
	response.OK(c, "Fournisseur récupéré avec succès", fournisseur)
}

// ListByCity handles GET /fournisseurs/ville/:ville, ordered by company name
func (h *FournisseurHandler) ListByCity(c *gin.Context) {
	fournisseurs, err := h.fournisseurService.FindByCityOrderedByName(c.Request.Context(), c.Param("ville"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Fournisseurs récupérés avec succès", fournisseurs)
}

// ListByEmailDomain handles GET /fournisseurs/domaine/:domaine
func (h *FournisseurHandler) ListByEmailDomain(c *gin.Context) {
	fournisseurs, err := h.fournisseurService.FindByEmailDomain(c.Request.Context(), c.Param("domaine"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Fournisseurs récupérés avec succès", fournisseurs)
}

// Exists handles GET /fournisseurs/existe?email=&ice=
func (h *FournisseurHandler) Exists(c *gin.Context) {
	ctx := c.Request.Context()
	email := queryParam(c, "email")
	ice := queryParam(c, "ice")
	if email == "" && ice == "" {
		response.ValidationError(c, map[string]string{"email": "Indiquez un email ou un ICE"})
		return
	}

	result := make(map[string]bool, 2)
	if email != "" {
		exists, err := h.fournisseurService.ExistsByEmail(ctx, email)
		if err != nil {
			response.Error(c, err)
			return
		}
		result["email"] = exists
	}
	if ice != "" {
		exists, err := h.fournisseurService.ExistsByTaxID(ctx, ice)
		if err != nil {
			response.Error(c, err)
			return
		}
		result["ice"] = exists
	}
	response.OK(c, "Vérification effectuée", result)
}

// bindFournisseur decodes and validates the request body, writing the 400
// response itself when that fails.
func bindFournisseur(c *gin.Context) (*request.FournisseurRequest, bool) {
	var req request.FournisseurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.NewValidationError(map[string]string{
			"body": "Corps de requête JSON invalide",
		}))
		return nil, false
	}
	if errs := req.Validate(); errs != nil {
		response.ValidationError(c, errs)
		return nil, false
	}
	return &req, true
}
