package main

import (
	"bytes"
	"errors"
	"github.com/gin-gonic/gin"
	"gridSheet/contracts"
	"net/http"
)

const csvContentType = "text/csv; charset=utf-8"

type ApiController struct {
	SheetRepository   contracts.SheetRepository
	WebhookDispatcher contracts.WebhookDispatcher
}

type CellEndpointParams struct {
	SheetId string `uri:"sheet_id" binding:"required"`
	CellId  string `uri:"cell_id" binding:"required"`
}

type SheetEndpointParams struct {
	SheetId string `uri:"sheet_id" binding:"required"`
}

type SheetQueryParams struct {
	Format string `form:"format" binding:"omitempty,oneof=json csv"`
}

// SetCellRequest.Value is a pointer so an empty string, which clears the cell,
// still passes the required check.
type SetCellRequest struct {
	Value *string `json:"value" binding:"required"`
}

type SubscribeRequest struct {
	WebhookUrl string `json:"webhook_url" binding:"omitempty,url"`
}

type SubscribeResponse struct {
	Address    string `json:"address"`
	WebhookUrl string `json:"webhook_url"`
}

type DependantsResponse struct {
	Address    string   `json:"address"`
	Dependants []string `json:"dependants"`
}

func NewApiController(sheetRepository contracts.SheetRepository, webhookDispatcher contracts.WebhookDispatcher) *ApiController {
	return &ApiController{
		SheetRepository:   sheetRepository,
		WebhookDispatcher: webhookDispatcher,
	}
}

func (api *ApiController) GetCellAction(c *gin.Context) {
	params := CellEndpointParams{}
	var response *contracts.Cell

	err := c.ShouldBindUri(&params)

	if err == nil {
		response, err = api.SheetRepository.GetCell(params.SheetId, params.CellId)
	}

	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
	} else {
		c.JSON(http.StatusOK, response)
	}
}

func (api *ApiController) SetCellAction(c *gin.Context) {
	params := CellEndpointParams{}
	request := SetCellRequest{}
	var response *contracts.Cell

	err := c.ShouldBindUri(&params)
	if err == nil {
		err = c.ShouldBindJSON(&request)
	}

	if err == nil {
		response, err = api.SheetRepository.SetCell(params.SheetId, params.CellId, *request.Value)
	}

	if err != nil {
		response = &contracts.Cell{Result: err.Error()}
		if request.Value != nil {
			response.Value = *request.Value
		}
		c.JSON(http.StatusUnprocessableEntity, response)
	} else {
		c.JSON(http.StatusCreated, response)
	}
}

func (api *ApiController) GetSheetAction(c *gin.Context) {
	params := SheetEndpointParams{}
	query := SheetQueryParams{}

	err := c.ShouldBindUri(&params)
	if err == nil {
		err = c.ShouldBindQuery(&query)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if query.Format == "csv" {
		var buffer bytes.Buffer
		err = api.SheetRepository.ExportSheet(params.SheetId, &buffer)
		if err != nil {
			c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		} else {
			c.Data(http.StatusOK, csvContentType, buffer.Bytes())
		}
		return
	}

	response, err := api.SheetRepository.GetCellList(params.SheetId)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
	} else {
		c.JSON(http.StatusOK, response)
	}
}

// ImportSheetAction replaces a sheet with the saved sheet file in the body
func (api *ApiController) ImportSheetAction(c *gin.Context) {
	params := SheetEndpointParams{}
	var response contracts.CellList

	err := c.ShouldBindUri(&params)
	if err == nil {
		response, err = api.SheetRepository.ImportSheet(params.SheetId, c.Request.Body)
	}

	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		c.JSON(http.StatusOK, response)
	}
}

// SubscribeAction registers the webhook called on every change of the cell.
// An empty webhook_url removes the subscription.
func (api *ApiController) SubscribeAction(c *gin.Context) {
	params := CellEndpointParams{}
	request := SubscribeRequest{}

	err := c.ShouldBindUri(&params)
	if err == nil {
		err = c.ShouldBindJSON(&request)
	}

	var address contracts.CellAddress
	if err == nil {
		address, err = contracts.ParseCellAddress(params.CellId)
	}

	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	api.WebhookDispatcher.SetWebhookUrl(CanonicalSheetId(params.SheetId), address.String(), request.WebhookUrl)

	c.JSON(http.StatusCreated, SubscribeResponse{
		Address:    address.String(),
		WebhookUrl: request.WebhookUrl,
	})
}

func (api *ApiController) GetDependantsAction(c *gin.Context) {
	params := CellEndpointParams{}
	var dependants []string

	err := c.ShouldBindUri(&params)
	if err == nil {
		dependants, err = api.SheetRepository.GetDependants(params.SheetId, params.CellId)
	}

	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	address, _ := contracts.ParseCellAddress(params.CellId)
	c.JSON(http.StatusOK, DependantsResponse{
		Address:    address.String(),
		Dependants: dependants,
	})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, contracts.CellNotFoundError), errors.Is(err, contracts.SheetNotFoundError):
		return http.StatusNotFound
	case errors.Is(err, contracts.InvalidAddressError), errors.Is(err, InvalidSheetIdError):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
