package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/lorrc/ventsite/internal/core/domain"
)

// ListResponse wraps a list of items (non-paginated)
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The header is already sent; an encode failure cannot be reported.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteList writes a simple list response
func WriteList[T any](w http.ResponseWriter, data []T) {
	if data == nil {
		data = []T{}
	}
	WriteJSON(w, http.StatusOK, ListResponse[T]{
		Data:  data,
		Count: len(data),
	})
}

// ServiceDTO is the public view of a catalog service.
type ServiceDTO struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	DescriptionItems []string `json:"descriptionItems"`
	Image            string   `json:"image"`
	ImageURL         string   `json:"imageUrl,omitempty"`
}

// WorkDTO is the public view of a portfolio entry.
type WorkDTO struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Images      []string  `json:"images"`
	ImageURLs   []string  `json:"imageUrls"`
	Square      string    `json:"square"`
	Quantity    string    `json:"quantity"`
	Time        string    `json:"time"`
	SuccessWork []string  `json:"successWork"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserDTO is the public view of a site user.
type UserDTO struct {
	ID          string     `json:"id"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserDTO   `json:"user"`
}

// AssetURLs turns stored upload paths into absolute URLs.
type AssetURLs struct {
	baseURL string
}

func NewAssetURLs(baseURL string) AssetURLs {
	return AssetURLs{baseURL: strings.TrimRight(baseURL, "/")}
}

// Resolve leaves absolute URLs alone and prefixes relative paths with the
// uploads base URL. An empty path stays empty.
func (a AssetURLs) Resolve(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if a.baseURL == "" {
		return path
	}
	return a.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (a AssetURLs) toServiceDTO(s *domain.Service) ServiceDTO {
	return ServiceDTO{
		ID:               s.ID,
		Name:             s.Name,
		Description:      s.Description,
		DescriptionItems: s.DescriptionItems(),
		Image:            s.Image,
		ImageURL:         a.Resolve(s.Image),
	}
}

func (a AssetURLs) toWorkDTO(w *domain.Work) WorkDTO {
	images := nonNil(w.Images)
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, a.Resolve(img))
	}

	return WorkDTO{
		ID:          w.ID,
		Slug:        w.Slug(),
		Title:       w.Title,
		Images:      images,
		ImageURLs:   urls,
		Square:      w.Square,
		Quantity:    w.Quantity,
		Time:        w.Time,
		SuccessWork: nonNil(w.SuccessWork),
		CreatedAt:   w.CreatedAt,
	}
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID.String(),
		FullName:    u.FullName,
		Email:       u.Email,
		Role:        u.Role.String(),
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
