package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/fulfillment-service/pkg/errors"
)

type lineInput struct {
	SKU      string `json:"sku" binding:"omitempty,sku"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

type orderInput struct {
	OrderID      string      `json:"orderId" binding:"required"`
	Zip          string      `json:"zip" binding:"required,postal_code"`
	ServiceLevel string      `json:"serviceLevel" binding:"omitempty,service_level"`
	Lines        []lineInput `json:"lines" binding:"required,min=1,dive"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      orderInput
		wantFields map[string]string
	}{
		{
			name:  "valid",
			input: orderInput{OrderID: "ORD-1", Zip: "H2X 1Y4", ServiceLevel: "express", Lines: []lineInput{{SKU: "SKU-1", Quantity: 1}}},
		},
		{
			name:  "missing fields",
			input: orderInput{},
			wantFields: map[string]string{
				"orderId": "is required",
				"zip":     "is required",
				"lines":   "is required",
			},
		},
		{
			name:  "custom rules",
			input: orderInput{OrderID: "ORD-1", Zip: "#", ServiceLevel: "overnight", Lines: []lineInput{{SKU: "!", Quantity: 1}}},
			wantFields: map[string]string{
				"zip":          "must be a valid postal code",
				"serviceLevel": "must be one of: standard, express, economy",
				"lines[0].sku": "must be a valid SKU (alphanumeric with dashes)",
			},
		},
		{
			name:       "nested quantity",
			input:      orderInput{OrderID: "ORD-1", Zip: "M5V", Lines: []lineInput{{Quantity: 1}, {Quantity: -2}}},
			wantFields: map[string]string{"lines[1].quantity": "must be greater than 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ValidateStruct(tt.input)
			if tt.wantFields == nil {
				assert.Nil(t, appErr)
				return
			}
			require.NotNil(t, appErr)
			assert.Equal(t, errors.CodeValidationError, appErr.Code)
			assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
			assert.Equal(t, tt.wantFields, appErr.Details)
		})
	}
}

func TestBindAndValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	InitValidator()

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"valid", `{"orderId":"ORD-1","zip":"M5V","lines":[{"quantity":1}]}`, ""},
		{"malformed", `{"orderId":`, errors.CodeBadRequest},
		{"invalid", `{"orderId":"ORD-1","zip":"M5V","lines":[]}`, errors.CodeValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var input orderInput
			appErr := BindAndValidate(c, &input)
			if tt.wantCode == "" {
				assert.Nil(t, appErr)
				assert.Equal(t, "ORD-1", input.OrderID)
				return
			}
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}
