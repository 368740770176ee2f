package handlers

import (
	"net/http"
	"strings"

	"campusshuttle/internal/domain/models"
	"campusshuttle/internal/repositories"
	"campusshuttle/internal/utils"

	"github.com/gin-gonic/gin"
)

type stopRequest struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	IsActive  *bool   `json:"isActive"`
}

// GET /api/stops — students see active stops only; admins pass ?all=true.
func GetStops(c *gin.Context) {
	onlyActive := c.Query("all") != "true"
	stops, err := (repositories.StopRepository{}).ListStops(onlyActive)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list stops", err)
		return
	}
	c.JSON(http.StatusOK, stops)
}

// GET /api/stops/:id
func GetStopByID(c *gin.Context) {
	stop, err := (repositories.StopRepository{}).GetStop(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stop)
}

// POST /api/admin/stops
func CreateStop(c *gin.Context) {
	var req stopRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.Name = utils.NormalizeSpace(req.Name)
	if req.Name == "" {
		RespondError(c, http.StatusBadRequest, "name is required", nil)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	id, err := (repositories.StopRepository{}).CreateStop(models.Stop{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Address:   strings.TrimSpace(req.Address),
		IsActive:  active,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create stop", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id})
}

// PUT /api/admin/stops/:id
func UpdateStop(c *gin.Context) {
	var req stopRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	repo := repositories.StopRepository{}
	err := repo.UpdateStop(models.Stop{
		ID:        c.Param("id"),
		Name:      utils.NormalizeSpace(req.Name),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Address:   strings.TrimSpace(req.Address),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if req.IsActive != nil {
		if err := repo.SetActive(c.Param("id"), *req.IsActive); err != nil {
			RespondDomainError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/admin/stops/:id deactivates; stops are never hard-deleted.
func DeactivateStop(c *gin.Context) {
	if err := (repositories.StopRepository{}).SetActive(c.Param("id"), false); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
