package handler

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Admin screens are rendered client-side: each page route answers with a
// component identifier plus a props payload. A request carrying the
// X-Inertia header gets the payload as JSON; a plain navigation gets the
// HTML shell with the payload embedded in the root element's data-page
// attribute, which the client bundle hydrates.

const bridgeHeader = "X-Inertia"

// assetVersion busts client-side caches when the admin bundle changes.
const assetVersion = "1"

type pagePayload struct {
	Component string `json:"component"`
	Props     gin.H  `json:"props"`
	URL       string `json:"url"`
	Version   string `json:"version"`
}

const pageShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Admin</title>
<link rel="stylesheet" href="/static/app.css">
<script type="module" src="/static/app.js" defer></script>
</head>
<body>
<div id="app" data-page="%s"></div>
</body>
</html>
`

func (a *API) renderPage(c *gin.Context, component string, props gin.H) {
	if props == nil {
		props = gin.H{}
	}

	payload := pagePayload{
		Component: component,
		Props:     props,
		URL:       c.Request.URL.RequestURI(),
		Version:   assetVersion,
	}

	c.Header("Vary", bridgeHeader)
	if c.GetHeader(bridgeHeader) != "" {
		c.Header(bridgeHeader, "true")
		c.JSON(http.StatusOK, payload)
		return
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render page")
		return
	}

	body := fmt.Sprintf(pageShell, template.HTMLEscapeString(string(encoded)))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}
