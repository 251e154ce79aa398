package handlers

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SwaggerJSONPath is where the UI loads the document from.
const SwaggerJSONPath = "/swagger/v1/swagger.json"

//go:embed openapi.json
var openAPIDoc []byte

const swaggerUIHTML = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width,initial-scale=1" />
    <title>TechHive User Management API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
    <style>
      body { margin: 0; background: #f8fafc; }
      #swagger-ui { max-width: 1200px; margin: 0 auto; }
    </style>
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: "` + SwaggerJSONPath + `",
        dom_id: "#swagger-ui",
        deepLinking: true,
        presets: [SwaggerUIBundle.presets.apis],
        layout: "BaseLayout"
      });
    </script>
  </body>
</html>`

func SwaggerUI(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerUIHTML))
}

func SwaggerDoc(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", openAPIDoc)
}
