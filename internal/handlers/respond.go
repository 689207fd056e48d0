package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"inventory-manager/internal/apperr"
	"inventory-manager/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// writeError renders err as {"error": ..., "details": ...} with the status
// of its kind. Internal errors are logged and answered generically.
func writeError(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind == apperr.KindInternal {
		log.Printf("[%s] %s %s: %v", middleware.RequestIDFrom(c), c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	body := gin.H{"error": ae.Message}
	if ae.Message == "" {
		body["error"] = ae.Kind.String()
	}
	if len(ae.Details) > 0 {
		body["details"] = ae.Details
	}
	c.JSON(apperr.Status(ae), body)
}

// bindJSON decodes and validates the body into dst.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		return apperr.Validation("Invalid request data", details)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		return apperr.Validation("Invalid request data", map[string]string{typeErr.Field: "type"})
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return apperr.Malformed("Invalid JSON data")
	}
	return apperr.Malformed("Invalid JSON data")
}

func init() {
	// report validation failures under the JSON field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Malformed("Invalid " + name)
	}
	return uint(id), nil
}

// storeFilter reads the optional store_id query parameter.
func storeFilter(c *gin.Context) (*uint, error) {
	raw := c.Query("store_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperr.Malformed("Invalid store_id")
	}
	v := uint(id)
	return &v, nil
}
