package main

import (
	"bytes"
	"errors"
	"fmt"
	json "github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gridSheet/contracts"
	"gridSheet/mocks"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestApiController_GetCellAction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	requestToGetCellAction := func(apiController contracts.ApiController) *httptest.ResponseRecorder {
		return _request(apiController, http.MethodGet, "/sheet1/A1", nil)
	}

	t.Run("should return cell value", func(t *testing.T) {
		sheetRepository := mocks.NewSheetRepository(t)
		sheetRepository.On("GetCell", "sheet1", "A1").
			Return(&contracts.Cell{
				Address: "A1",
				Value:   "=2+3",
				Result:  "5.0",
				Kind:    contracts.CellKindFormula,
			}, nil)

		apiController := NewApiController(sheetRepository, nil)

		w := requestToGetCellAction(apiController)
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{
			"address": "A1",
			"value":   "=2+3",
			"result":  "5.0",
			"kind":    "formula",
		}, response)
	})

	errorCases := map[string]struct {
		err    error
		status int
	}{
		"cell not found":  {contracts.CellNotFoundError, http.StatusNotFound},
		"sheet not found": {contracts.SheetNotFoundError, http.StatusNotFound},
		"invalid address": {contracts.InvalidAddressError, http.StatusUnprocessableEntity},
		"custom error":    {errors.New("test"), http.StatusInternalServerError},
	}

	for name, testCase := range errorCases {
		t.Run(name, func(t *testing.T) {
			sheetRepository := mocks.NewSheetRepository(t)
			sheetRepository.On("GetCell", "sheet1", "A1").Return(nil, fmt.Errorf("A1: %w", testCase.err))

			apiController := NewApiController(sheetRepository, nil)

			w := requestToGetCellAction(apiController)
			response, err := _parseJsonBody(w)

			assert.NoError(t, err)
			assert.Equal(t, testCase.status, w.Code)
			assert.Equal(t, "A1: "+testCase.err.Error(), response["error"])
		})
	}
}

func TestApiController_SetCellAction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	requestToSetCellAction := func(apiController contracts.ApiController, data map[string]any) *httptest.ResponseRecorder {
		jsonBody, _ := json.Marshal(data)
		return _request(apiController, http.MethodPost, "/sheet1/A1", bytes.NewReader(jsonBody))
	}

	t.Run("success write", func(t *testing.T) {
		sheetRepository := mocks.NewSheetRepository(t)
		sheetRepository.On("SetCell", "sheet1", "A1", "=1/0").
			Return(&contracts.Cell{Address: "A1", Value: "=1/0", Result: contracts.ErrFormToken, Kind: contracts.CellKindFormulaError}, nil)

		apiController := NewApiController(sheetRepository, nil)

		w := requestToSetCellAction(apiController, map[string]any{"value": "=1/0"})
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "=1/0", response["value"])
		assert.Equal(t, contracts.ErrFormToken, response["result"])
		assert.Equal(t, "formula_error", response["kind"])
	})

	t.Run("empty value clears the cell", func(t *testing.T) {
		sheetRepository := mocks.NewSheetRepository(t)
		sheetRepository.On("SetCell", "sheet1", "A1", "").
			Return(&contracts.Cell{Address: "A1"}, nil)

		apiController := NewApiController(sheetRepository, nil)

		w := requestToSetCellAction(apiController, map[string]any{"value": ""})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("missing value", func(t *testing.T) {
		apiController := NewApiController(mocks.NewSheetRepository(t), nil)

		w := requestToSetCellAction(apiController, map[string]any{"other": "x"})
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, response["result"], "Value")
		assert.Equal(t, "", response["value"])
	})

	t.Run("error", func(t *testing.T) {
		sheetRepository := mocks.NewSheetRepository(t)
		sheetRepository.On("SetCell", "sheet1", "A1", "value1").
			Return(nil, errors.New("test"))

		apiController := NewApiController(sheetRepository, nil)

		w := requestToSetCellAction(apiController, map[string]any{"value": "value1"})
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "value1", response["value"])
		assert.Equal(t, "test", response["result"])
	})
}

func TestApiController_GetSheetAction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		list := contracts.CellList{
			"A1": {Address: "A1", Value: "5", Result: "5", Kind: contracts.CellKindNumber},
			"B2": {Address: "B2", Value: "=A1", Result: "5.0", Kind: contracts.CellKindFormula},
		}

		sheetRepository := mocks.NewSheetRepository(t)
		sheetRepository.On("GetCellList", "sheet1").Return(list, nil)

		apiController := NewApiController(sheetRepository, nil)

		w := _request(apiController, http.MethodGet, "/sheet1", nil)
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		for key, cell := range list {
			assert.Contains(t, response, key)

			responseCell := response[key].(map[string]any)
			assert.Equal(t, cell.Value, responseCell["value"])
			assert.Equal(t, cell.Result, responseCell["result"])
		}
	})

	t.Run("csv_export", func(t *testing.T) {
		sheetRepository := mocks.NewSheetRepository(t)
		sheetRepository.On("ExportSheet", "sheet1", mock.Anything).
			Return(func(sheetId string, writer io.Writer) error {
				return WriteSheetCsv(writer, []contracts.CellEntry{{X: 0, Y: 0, Value: "5"}})
			})

		apiController := NewApiController(sheetRepository, nil)

		w := _request(apiController, http.MethodGet, "/sheet1?format=csv", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, csvContentType, w.Header().Get("Content-Type"))
		assert.Equal(t, SheetCsvHeader+"\n0,0,5\n", w.Body.String())
	})

	t.Run("csv_export_not_found", func(t *testing.T) {
		sheetRepository := mocks.NewSheetRepository(t)
		sheetRepository.On("ExportSheet", "sheet1", mock.Anything).Return(contracts.SheetNotFoundError)

		apiController := NewApiController(sheetRepository, nil)

		w := _request(apiController, http.MethodGet, "/sheet1?format=csv", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown_format", func(t *testing.T) {
		apiController := NewApiController(mocks.NewSheetRepository(t), nil)

		w := _request(apiController, http.MethodGet, "/sheet1?format=xml", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("not_found_sheet", func(t *testing.T) {
		sheetRepository := mocks.NewSheetRepository(t)
		sheetRepository.On("GetCellList", "sheet1").Return(nil, contracts.SheetNotFoundError)

		apiController := NewApiController(sheetRepository, nil)

		w := _request(apiController, http.MethodGet, "/sheet1", nil)
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, contracts.SheetNotFoundError.Error(), response["error"])
	})

	t.Run("error", func(t *testing.T) {
		sheetRepository := mocks.NewSheetRepository(t)
		sheetRepository.On("GetCellList", "sheet1").Return(nil, errors.New("test"))

		apiController := NewApiController(sheetRepository, nil)

		w := _request(apiController, http.MethodGet, "/sheet1", nil)
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "test", response["error"])
	})
}

func TestApiController_ImportSheetAction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	body := SheetCsvHeader + "\n0,0,5\n"

	t.Run("success", func(t *testing.T) {
		sheetRepository := mocks.NewSheetRepository(t)
		sheetRepository.On("ImportSheet", "sheet1", mock.MatchedBy(func(reader io.Reader) bool {
			content, _ := io.ReadAll(reader)
			return string(content) == body
		})).Return(contracts.CellList{"A0": {Address: "A0", Value: "5", Result: "5"}}, nil)

		apiController := NewApiController(sheetRepository, nil)

		w := _request(apiController, http.MethodPut, "/sheet1", bytes.NewBufferString(body))
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, response, "A0")
	})

	t.Run("error", func(t *testing.T) {
		sheetRepository := mocks.NewSheetRepository(t)
		sheetRepository.On("ImportSheet", "sheet1", mock.Anything).Return(nil, errors.New("broken"))

		apiController := NewApiController(sheetRepository, nil)

		w := _request(apiController, http.MethodPut, "/sheet1", bytes.NewBufferString(body))
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "broken", response["error"])
	})
}

func TestApiController_SubscribeAction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	requestToSubscribe := func(apiController contracts.ApiController, cellId string, data map[string]any) *httptest.ResponseRecorder {
		jsonBody, _ := json.Marshal(data)
		return _request(apiController, http.MethodPost, "/Sheet1/"+cellId+"/"+subscribePath, bytes.NewReader(jsonBody))
	}

	t.Run("subscribe", func(t *testing.T) {
		webhookDispatcher := mocks.NewWebhookDispatcher(t)
		webhookDispatcher.On("SetWebhookUrl", "sheet1", "B2", "http://example.com/hook").Return().Once()

		apiController := NewApiController(nil, webhookDispatcher)

		w := requestToSubscribe(apiController, "b2", map[string]any{"webhook_url": "http://example.com/hook"})
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, map[string]any{"address": "B2", "webhook_url": "http://example.com/hook"}, response)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		webhookDispatcher := mocks.NewWebhookDispatcher(t)
		webhookDispatcher.On("SetWebhookUrl", "sheet1", "B2", "").Return().Once()

		apiController := NewApiController(nil, webhookDispatcher)

		w := requestToSubscribe(apiController, "B2", map[string]any{"webhook_url": ""})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("invalid_url", func(t *testing.T) {
		apiController := NewApiController(nil, mocks.NewWebhookDispatcher(t))

		w := requestToSubscribe(apiController, "B2", map[string]any{"webhook_url": "not a url"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("invalid_address", func(t *testing.T) {
		apiController := NewApiController(nil, mocks.NewWebhookDispatcher(t))

		w := requestToSubscribe(apiController, "B200", map[string]any{"webhook_url": "http://example.com/hook"})
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, response["error"], contracts.InvalidAddressError.Error())
	})
}

func TestApiController_GetDependantsAction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		sheetRepository := mocks.NewSheetRepository(t)
		sheetRepository.On("GetDependants", "sheet1", "a0").Return([]string{"B0", "C0"}, nil)

		apiController := NewApiController(sheetRepository, nil)

		w := _request(apiController, http.MethodGet, "/sheet1/a0/"+dependantsPath, nil)
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "A0", response["address"])
		assert.Equal(t, []any{"B0", "C0"}, response["dependants"])
	})

	t.Run("not_found", func(t *testing.T) {
		sheetRepository := mocks.NewSheetRepository(t)
		sheetRepository.On("GetDependants", "sheet1", "A0").Return(nil, contracts.SheetNotFoundError)

		apiController := NewApiController(sheetRepository, nil)

		w := _request(apiController, http.MethodGet, "/sheet1/A0/"+dependantsPath, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func _request(apiController contracts.ApiController, method string, path string, body io.Reader) *httptest.ResponseRecorder {
	router := SetupRouter(apiController, _discardLogger())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, "/api/"+ApiVersion+path, body)
	router.ServeHTTP(w, req)
	return w
}

func _parseJsonBody(w *httptest.ResponseRecorder) (response map[string]any, err error) {
	err = json.Unmarshal(w.Body.Bytes(), &response)
	return
}
