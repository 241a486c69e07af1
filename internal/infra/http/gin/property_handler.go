package ginserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"erents/internal/app/commands"
	"erents/internal/app/dto"
	propertyapp "erents/internal/app/handlers/property"
	"erents/internal/app/queries"
	domainproperty "erents/internal/domain/property"
)

type PropertyHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	Search(c *gin.Context)
	ListMine(c *gin.Context)
	Update(c *gin.Context)
	ChangeStatus(c *gin.Context)
	UploadPhoto(c *gin.Context)
}

type PropertyHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type addressRequest struct {
	Line1   string  `json:"line1"`
	Line2   string  `json:"line2"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type propertyRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Address     addressRequest `json:"address"`
	Amenities   []string       `json:"amenities"`
	Bedrooms    int            `json:"bedrooms"`
	Bathrooms   int            `json:"bathrooms"`
	AreaSqM     float64        `json:"area_sqm"`
	PriceMinor  int64          `json:"price_minor"`
	Currency    string         `json:"currency"`
	RentingType string         `json:"renting_type"`
}

func (h PropertyHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, "landlord")
	if !ok {
		return
	}
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := propertyapp.CreatePropertyCommand{
		CommandID:   generateCommandID(),
		OwnerID:     user.ID,
		Title:       req.Title,
		Description: req.Description,
		Address:     mapAddress(req.Address),
		Amenities:   req.Amenities,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		AreaSqM:     req.AreaSqM,
		PriceMinor:  req.PriceMinor,
		Currency:    req.Currency,
		RentingType: req.RentingType,
		Now:         time.Now().UTC(),
	}
	result, err := commands.Dispatch[propertyapp.CreatePropertyCommand, *propertyapp.CreatePropertyResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h PropertyHandler) Get(c *gin.Context) {
	propertyID := c.Param("id")
	if propertyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "property id is required"})
		return
	}
	result, err := queries.Ask[propertyapp.GetPropertyQuery, dto.PropertyDetail](c.Request.Context(), h.Queries, propertyapp.GetPropertyQuery{PropertyID: propertyID})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Search(c *gin.Context) {
	params := domainproperty.SearchParams{
		City:          c.Query("city"),
		Country:       c.Query("country"),
		MinBedrooms:   parseInt(c.Query("min_bedrooms")),
		PriceMinMinor: parseInt64(c.Query("price_min_minor")),
		PriceMaxMinor: parseInt64(c.Query("price_max_minor")),
		Sort:          domainproperty.SearchSort(c.Query("sort")),
		Limit:         parseInt(c.Query("limit")),
		Offset:        parseInt(c.Query("offset")),
	}
	for _, raw := range splitCSV(c.Query("renting_types")) {
		params.RentingTypes = append(params.RentingTypes, domainproperty.RentingType(raw))
	}
	result, err := queries.Ask[propertyapp.SearchPropertiesQuery, dto.PropertyCollection](c.Request.Context(), h.Queries, propertyapp.SearchPropertiesQuery{Params: params})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) ListMine(c *gin.Context) {
	user, ok := requireRole(c, "landlord")
	if !ok {
		return
	}
	result, err := queries.Ask[propertyapp.ListOwnerPropertiesQuery, dto.PropertyCollection](c.Request.Context(), h.Queries, propertyapp.ListOwnerPropertiesQuery{OwnerID: user.ID})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Update(c *gin.Context) {
	user, ok := requireRole(c, "landlord")
	if !ok {
		return
	}
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := propertyapp.UpdatePropertyCommand{
		PropertyID:  c.Param("id"),
		ActorID:     user.ID,
		Title:       req.Title,
		Description: req.Description,
		Address:     mapAddress(req.Address),
		Amenities:   req.Amenities,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		AreaSqM:     req.AreaSqM,
		PriceMinor:  req.PriceMinor,
		Currency:    req.Currency,
		RentingType: req.RentingType,
		Now:         time.Now().UTC(),
	}
	result, err := commands.Dispatch[propertyapp.UpdatePropertyCommand, *propertyapp.UpdatePropertyResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type changeStatusRequest struct {
	Action string `json:"action"`
}

func (h PropertyHandler) ChangeStatus(c *gin.Context) {
	user, ok := requireRole(c, "landlord")
	if !ok {
		return
	}
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := propertyapp.ChangeStatusCommand{
		PropertyID: c.Param("id"),
		ActorID:    user.ID,
		Action:     propertyapp.StatusAction(strings.ToUpper(strings.TrimSpace(req.Action))),
		Now:        time.Now().UTC(),
	}
	result, err := commands.Dispatch[propertyapp.ChangeStatusCommand, *propertyapp.ChangeStatusResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) UploadPhoto(c *gin.Context) {
	user, ok := requireRole(c, "landlord")
	if !ok {
		return
	}
	propertyID := c.Param("id")
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read photo"})
		return
	}
	defer src.Close()
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	cmd := propertyapp.UploadPhotoCommand{
		ActorID:     user.ID,
		PropertyID:  propertyID,
		ObjectKey:   photoObjectKey(propertyID, file.Filename),
		ContentType: contentType,
		Reader:      src,
	}
	result, err := commands.Dispatch[propertyapp.UploadPhotoCommand, *propertyapp.UploadPhotoResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func photoObjectKey(propertyID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("properties/%s/%s%s", propertyID, uuid.NewString(), ext)
}

func mapAddress(a addressRequest) domainproperty.Address {
	return domainproperty.Address{
		Line1:   a.Line1,
		Line2:   a.Line2,
		City:    a.City,
		Country: a.Country,
		Lat:     a.Lat,
		Lon:     a.Lon,
	}
}

func generateCommandID() string {
	return uuid.NewString()
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

func parseInt64(raw string) int64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

var _ PropertyHTTP = PropertyHandler{}
