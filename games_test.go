package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/models"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := models.MigrateTable(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	config.SetDB(db)
	t.Cleanup(func() { config.SetDB(nil) })
}

type stubStorage struct{}

func (stubStorage) Save(_ context.Context, objectKey string, _ string, _ []byte) (string, error) {
	return "/uploads/" + objectKey, nil
}

func (stubStorage) Delete(_ context.Context, _ string) error { return nil }

func (stubStorage) URL(objectKey string) string { return "/uploads/" + objectKey }

// A create whose optional image cannot be processed still committed the
// row, so the response must stay 201 and carry the entity.
func TestCreateGameKeepsRowWhenImageFails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setupHandlerDB(t)
	settings := &config.Settings{MaxUploadBytes: 5 * 1024 * 1024, ThumbnailSize: 300}

	r := gin.New()
	registerGameRoutes(r, stubStorage{}, settings)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("title", "Broken Cover")
	_ = w.WriteField("developer", "Indie Co")
	_ = w.WriteField("genre", "Puzzle")
	_ = w.WriteField("release_year", "2020")
	_ = w.WriteField("price", "19.99")
	fw, err := w.CreateFormFile("image", "art.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := fw.Write([]byte("not an image")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/games", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Item       models.Game `json:"item"`
		ImageError string      `json:"image_error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Item.ID == 0 {
		t.Fatalf("expected the committed game in the body, got %s", rec.Body.String())
	}
	if body.ImageError == "" {
		t.Fatalf("expected image_error in the body, got %s", rec.Body.String())
	}

	game, err := models.GetGame(context.Background(), body.Item.ID, false)
	if err != nil {
		t.Fatalf("GetGame after create: %v", err)
	}
	if game.Image != nil {
		t.Fatalf("expected no image attached after the failure")
	}
}
