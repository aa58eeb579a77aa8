// Package sitedata holds the site's static content: the editor's profile,
// services, pricing tiers and selling points, plus default portfolio and
// video items shown when the database is unreachable or empty.
//
// The content ships embedded as YAML. A file on disk may replace it
// wholesale via LoadFile.
package sitedata

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/dalemusser/reelsite/internal/app/system/mediaurl"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var embedded []byte

type Social struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type Profile struct {
	Name        string   `yaml:"name"`
	Title       string   `yaml:"title"`
	Tagline     string   `yaml:"tagline"`
	Description string   `yaml:"description"`
	Email       string   `yaml:"email"`
	WhatsApp    string   `yaml:"whatsapp"`
	Socials     []Social `yaml:"socials"`
}

// WhatsAppLink returns a wa.me link for the profile number, or "".
func (p Profile) WhatsAppLink() string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, p.WhatsApp)
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits
}

type Tool struct {
	Name  string `yaml:"name"`
	Level string `yaml:"level"`
}

type Service struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
}

type Tier struct {
	Name        string   `yaml:"name"`
	Price       string   `yaml:"price"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
	Popular     bool     `yaml:"popular"`
}

type Reason struct {
	Title       string `yaml:"title"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
}

// Item is a default portfolio entry or video.
type Item struct {
	Title       string `yaml:"title"`
	Category    string `yaml:"category"`
	Image       string `yaml:"image"`
	Description string `yaml:"description"`
	VideoURL    string `yaml:"video_url"`
}

// Dataset is the whole static content tree.
type Dataset struct {
	Profile     Profile   `yaml:"profile"`
	Tools       []Tool    `yaml:"tools"`
	Services    []Service `yaml:"services"`
	Pricing     []Tier    `yaml:"pricing"`
	WhyChooseMe []Reason  `yaml:"why_choose_me"`
	Portfolio   []Item    `yaml:"portfolio"`
	Videos      []Item    `yaml:"videos"`
}

// Parse decodes a YAML dataset. Unknown keys are rejected so typos in an
// override file surface at startup.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("parse site data: %w", err)
	}
	if strings.TrimSpace(ds.Profile.Name) == "" {
		return nil, fmt.Errorf("parse site data: profile.name is required")
	}
	for i, it := range append(append([]Item{}, ds.Portfolio...), ds.Videos...) {
		if strings.TrimSpace(it.Title) == "" || strings.TrimSpace(it.Category) == "" {
			return nil, fmt.Errorf("parse site data: item %d needs title and category", i)
		}
	}
	return &ds, nil
}

// Default returns the embedded dataset. It panics if the embedded file is
// invalid, which the package tests rule out.
func Default() *Dataset {
	ds, err := Parse(embedded)
	if err != nil {
		panic(err)
	}
	return ds
}

// LoadFile reads a dataset from path. An empty path returns Default().
func LoadFile(path string) (*Dataset, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site data: %w", err)
	}
	return Parse(data)
}

// Items returns the default items for kind as published media items with
// normalized video links. They carry no database ID.
func (ds *Dataset) Items(kind models.MediaKind) []models.MediaItem {
	src := ds.Portfolio
	if kind == models.MediaVideos {
		src = ds.Videos
	}
	out := make([]models.MediaItem, 0, len(src))
	for _, it := range src {
		out = append(out, models.MediaItem{
			Title:       strings.TrimSpace(it.Title),
			Category:    strings.TrimSpace(it.Category),
			Image:       it.Image,
			Description: it.Description,
			VideoURL:    mediaurl.Normalize(it.VideoURL),
			Published:   true,
		})
	}
	return out
}
