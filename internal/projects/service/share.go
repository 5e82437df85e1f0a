package service

import (
	"net/url"
	"strings"

	"github.com/roomify-app/roomify-backend/internal/projects/domain"
)

type ShareLinks struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	WhatsApp  string `json:"whatsapp"`
	Telegram  string `json:"telegram"`
	Pinterest string `json:"pinterest"`
}

// Share builds the public visualizer link for rec and the matching share
// intents.
func Share(rec domain.Record, appURL string) ShareLinks {
	link := strings.TrimRight(appURL, "/") + "/visualizer/" + url.PathEscape(rec.ID)

	name := rec.Name
	if name == "" {
		name = "Residence " + rec.ID
	}
	title := "Check out my Roomify design: " + name

	media := rec.RenderedImage
	if media == "" {
		media = rec.SourceImage
	}
	pin := url.Values{"url": {link}, "description": {title}}
	// data URIs are not shareable
	if media != "" && !strings.HasPrefix(media, "data:") {
		pin.Set("media", media)
	}

	return ShareLinks{
		URL:       link,
		Title:     title,
		WhatsApp:  "https://api.whatsapp.com/send?" + url.Values{"text": {title + " " + link}}.Encode(),
		Telegram:  "https://telegram.me/share/?" + url.Values{"url": {link}, "text": {title}}.Encode(),
		Pinterest: "https://pinterest.com/pin/create/button/?" + pin.Encode(),
	}
}
