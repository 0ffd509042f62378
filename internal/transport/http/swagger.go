package http

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/campustour/tour-api/internal/util"
)

// RegisterSwagger serves the OpenAPI document in docsDir and the UI under
// /swagger.
func RegisterSwagger(e *echo.Echo, docsDir string) {
	if docsDir == "" {
		docsDir = "docs"
	}
	e.GET("/swagger/doc.json", func(c echo.Context) error {
		data, err := os.ReadFile(filepath.Join(docsDir, "swagger.yaml"))
		if err != nil {
			c.Logger().Errorf("load openapi document: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("Unable to load API documentation"))
		}
		jsonSpec, err := yaml.YAMLToJSON(data)
		if err != nil {
			c.Logger().Errorf("convert openapi document: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("Unable to parse API documentation"))
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, jsonSpec)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
