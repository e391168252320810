package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/asoguard/rankguard/pkg/types"
)

// KeywordsProvider defines the store methods required by the keywords handler.
type KeywordsProvider interface {
	CreateKeyword(ctx context.Context, k *domain.TrackedKeyword) error
	GetKeyword(ctx context.Context, id string) (*domain.TrackedKeyword, error)
	ListKeywords(ctx context.Context, enabledOnly bool) ([]domain.TrackedKeyword, error)
	SetKeywordEnabled(ctx context.Context, id string, enabled bool) error
	DeleteKeyword(ctx context.Context, id string) error
}

// KeywordsHandler handles tracked keyword CRUD operations.
type KeywordsHandler struct {
	store KeywordsProvider
}

// NewKeywordsHandler creates a new KeywordsHandler.
func NewKeywordsHandler(s KeywordsProvider) *KeywordsHandler {
	return &KeywordsHandler{store: s}
}

// --- Input/Output types ---

// ListKeywordsInput is the input for listing tracked keywords.
type ListKeywordsInput struct {
	Enabled bool `query:"enabled" doc:"Return only enabled keywords"`
}

// ListKeywordsOutput is the response for listing tracked keywords.
type ListKeywordsOutput struct {
	Body []domain.TrackedKeyword
}

// GetKeywordInput is the input for getting a single tracked keyword.
type GetKeywordInput struct {
	ID string `path:"id" doc:"Keyword UUID"`
}

// GetKeywordOutput is the response for getting a single tracked keyword.
type GetKeywordOutput struct {
	Body domain.TrackedKeyword
}

// CreateKeywordInput is the request body for creating a tracked keyword.
type CreateKeywordInput struct {
	Body struct {
		Keyword string `json:"keyword" doc:"Search term to track"      minLength:"1"`
		Country string `json:"country" doc:"Two-letter storefront code" minLength:"2" maxLength:"2"`
		Enabled bool   `json:"enabled" doc:"Whether to scan this keyword (default true)"`
	}
}

// CreateKeywordOutput is the response for creating a tracked keyword.
type CreateKeywordOutput struct {
	Body domain.TrackedKeyword
}

// SetKeywordEnabledInput is the request for enabling or disabling a keyword.
type SetKeywordEnabledInput struct {
	ID   string `path:"id" doc:"Keyword UUID"`
	Body struct {
		Enabled bool `json:"enabled" doc:"New enabled state"`
	}
}

// SetKeywordEnabledOutput is the response for the enabled toggle.
type SetKeywordEnabledOutput struct {
	Body StatusResponse
}

// DeleteKeywordInput is the input for deleting a tracked keyword.
type DeleteKeywordInput struct {
	ID string `path:"id" doc:"Keyword UUID"`
}

// --- Handlers ---

// List returns all tracked keywords, optionally filtered to enabled ones.
func (h *KeywordsHandler) List(
	ctx context.Context,
	input *ListKeywordsInput,
) (*ListKeywordsOutput, error) {
	keywords, err := h.store.ListKeywords(ctx, input.Enabled)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing keywords failed: " + err.Error())
	}

	if keywords == nil {
		keywords = []domain.TrackedKeyword{}
	}

	return &ListKeywordsOutput{Body: keywords}, nil
}

// Get returns a single tracked keyword by ID.
func (h *KeywordsHandler) Get(
	ctx context.Context,
	input *GetKeywordInput,
) (*GetKeywordOutput, error) {
	k, err := h.store.GetKeyword(ctx, input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("keyword not found")
	}

	return &GetKeywordOutput{Body: *k}, nil
}

// Create registers a new keyword/country pair for tracking.
func (h *KeywordsHandler) Create(
	ctx context.Context,
	input *CreateKeywordInput,
) (*CreateKeywordOutput, error) {
	k := domain.TrackedKeyword{
		Keyword: input.Body.Keyword,
		Country: input.Body.Country,
		Enabled: input.Body.Enabled,
	}

	if err := h.store.CreateKeyword(ctx, &k); err != nil {
		return nil, huma.Error500InternalServerError("creating keyword failed: " + err.Error())
	}

	return &CreateKeywordOutput{Body: k}, nil
}

// SetEnabled toggles whether a keyword is scanned.
func (h *KeywordsHandler) SetEnabled(
	ctx context.Context,
	input *SetKeywordEnabledInput,
) (*SetKeywordEnabledOutput, error) {
	if err := h.store.SetKeywordEnabled(ctx, input.ID, input.Body.Enabled); err != nil {
		return nil, huma.Error500InternalServerError("setting keyword enabled failed: " + err.Error())
	}

	return &SetKeywordEnabledOutput{Body: StatusResponse{Status: "updated"}}, nil
}

// Delete removes a tracked keyword and its stored history.
func (h *KeywordsHandler) Delete(
	ctx context.Context,
	input *DeleteKeywordInput,
) (*struct{}, error) {
	if err := h.store.DeleteKeyword(ctx, input.ID); err != nil {
		return nil, huma.Error500InternalServerError("deleting keyword failed: " + err.Error())
	}

	return &struct{}{}, nil
}

// RegisterKeywordRoutes registers keyword endpoints with the Huma API.
func RegisterKeywordRoutes(api huma.API, h *KeywordsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-keywords",
		Method:      http.MethodGet,
		Path:        "/api/v1/keywords",
		Summary:     "List tracked keywords",
		Description: "Returns all tracked keyword/country pairs, optionally filtered to enabled ones.",
		Tags:        []string{"keywords"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-keyword",
		Method:      http.MethodGet,
		Path:        "/api/v1/keywords/{id}",
		Summary:     "Get a tracked keyword by ID",
		Description: "Returns a single tracked keyword by its UUID.",
		Tags:        []string{"keywords"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID:   "create-keyword",
		Method:        http.MethodPost,
		Path:          "/api/v1/keywords",
		Summary:       "Create a tracked keyword",
		Description:   "Registers a keyword/country pair for rank tracking.",
		Tags:          []string{"keywords"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusInternalServerError},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "set-keyword-enabled",
		Method:      http.MethodPut,
		Path:        "/api/v1/keywords/{id}/enabled",
		Summary:     "Enable or disable a tracked keyword",
		Description: "Sets whether the keyword is scanned on future tracking cycles.",
		Tags:        []string{"keywords"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.SetEnabled)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-keyword",
		Method:        http.MethodDelete,
		Path:          "/api/v1/keywords/{id}",
		Summary:       "Delete a tracked keyword",
		Description:   "Removes the keyword and its stored rank history.",
		Tags:          []string{"keywords"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusInternalServerError},
	}, h.Delete)
}
