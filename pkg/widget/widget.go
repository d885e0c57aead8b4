// Package widget renders the embeddable chat widget assets: the loader
// script a host page includes, the iframe chat UI it injects, and a landing
// page demonstrating the embed. Assets are rendered once at startup from the
// widget settings and served as static bytes.
package widget

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/embedchat-ai/embedchat/pkg/config"
)

// Renderer holds the pre-rendered widget assets.
type Renderer struct {
	loaderJS    []byte
	chatHTML    []byte
	landingHTML []byte
}

type templateData struct {
	Title       string
	AccentColor string
	Position    string
}

// NewRenderer renders all assets for the given settings. Position accepts
// "bottom-left"; anything else means bottom-right.
func NewRenderer(cfg config.WidgetConfig) (*Renderer, error) {
	data := templateData{
		Title:       cfg.Title,
		AccentColor: cfg.AccentColor,
		Position:    cfg.Position,
	}

	loader, err := renderText("loader", loaderTemplate, data)
	if err != nil {
		return nil, err
	}
	chat, err := renderHTML("chat", chatTemplate, data)
	if err != nil {
		return nil, err
	}
	landing, err := renderHTML("landing", landingTemplate, data)
	if err != nil {
		return nil, err
	}

	return &Renderer{loaderJS: loader, chatHTML: chat, landingHTML: landing}, nil
}

// LoaderJS returns the widget loader script.
func (r *Renderer) LoaderJS() []byte { return r.loaderJS }

// ChatHTML returns the iframe chat UI page.
func (r *Renderer) ChatHTML() []byte { return r.chatHTML }

// LandingHTML returns the demo landing page.
func (r *Renderer) LandingHTML() []byte { return r.landingHTML }

func renderText(name, tmpl string, data templateData) ([]byte, error) {
	t, err := texttemplate.New(name).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s template: %w", name, err)
	}
	return buf.Bytes(), nil
}

func renderHTML(name, tmpl string, data templateData) ([]byte, error) {
	t, err := htmltemplate.New(name).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s template: %w", name, err)
	}
	return buf.Bytes(), nil
}
