package deskserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	clienthttpmapper "github.com/Apurer/go-gin-order-desk/internal/domains/clients/adapters/http/mapper"
	clientsports "github.com/Apurer/go-gin-order-desk/internal/domains/clients/ports"
)

// ClientAPI exposes the client directory.
type ClientAPI struct {
	service clientsports.Service
}

func NewClientAPI(service clientsports.Service) ClientAPI {
	return ClientAPI{service: service}
}

// Post /v1/clients
// Registers a client
func (api *ClientAPI) RegisterClient(c *gin.Context) {
	var payload clienthttpmapper.ClientPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	client, err := api.service.Register(c.Request.Context(), clienthttpmapper.ToProfile(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, clienthttpmapper.FromProjection(client))
}

// Get /v1/clients
// Lists clients by name, optionally filtered by a name fragment
func (api *ClientAPI) ListClients(c *gin.Context) {
	var (
		result []*clientsports.ClientProjection
		err    error
	)
	if term := strings.TrimSpace(c.Query("name")); term != "" {
		result, err = api.service.SearchByName(c.Request.Context(), term)
	} else {
		result, err = api.service.List(c.Request.Context())
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, clienthttpmapper.FromProjectionList(result))
}

// Get /v1/clients/:clientId
func (api *ClientAPI) GetClientById(c *gin.Context) {
	id, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}
	client, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, clienthttpmapper.FromProjection(client))
}

// Put /v1/clients/:clientId
func (api *ClientAPI) UpdateClient(c *gin.Context) {
	id, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}
	var payload clienthttpmapper.ClientPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	client, err := api.service.Update(c.Request.Context(), id, clienthttpmapper.ToProfile(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, clienthttpmapper.FromProjection(client))
}

// Delete /v1/clients/:clientId
// Refused while the client has orders
func (api *ClientAPI) DeleteClient(c *gin.Context) {
	id, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/clients/statistics
func (api *ClientAPI) ClientStatistics(c *gin.Context) {
	stats, err := api.service.Statistics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, clienthttpmapper.FromStatistics(stats))
}
