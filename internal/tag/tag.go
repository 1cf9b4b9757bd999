package tag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/erazemk/neuanfang/internal/model"
)

// DefaultQRSize is the edge length of generated QR images in pixels.
const DefaultQRSize = 256

// QRCode renders the snapshot as a PNG. When the full payload does not fit
// into a QR symbol only the box code is encoded. A nil snapshot yields nil.
func QRCode(s *Snapshot, size int) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	if size <= 0 {
		size = DefaultQRSize
	}

	payload, err := s.Encode()
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err == nil {
		return png, nil
	}

	png, err = qrcode.Encode(s.Code, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	return png, nil
}

// ParseCode extracts the box code from a scanned label. It accepts a bare
// code or a full snapshot payload.
func ParseCode(scanned string) string {
	scanned = strings.TrimSpace(scanned)
	if strings.HasPrefix(scanned, "{") {
		var s Snapshot
		if err := json.Unmarshal([]byte(scanned), &s); err == nil {
			scanned = s.Code
		}
	}
	return strings.ToUpper(scanned)
}

// Store is the storage used by Service.
type Store interface {
	GetBoxByQRCode(ctx context.Context, code string) (*model.Box, error)
	SetBoxNFCTag(ctx context.Context, id, tag string) error
}

// Writer writes a payload to a physical NFC tag and returns the tag's id.
type Writer interface {
	Write(ctx context.Context, payload string) (tagID string, err error)
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, payload string) (string, error)

// Write calls f.
func (f WriterFunc) Write(ctx context.Context, payload string) (string, error) {
	return f(ctx, payload)
}

// Service manages box labels. Operations on a nil box do nothing.
type Service struct {
	store Store
}

// NewService returns a Service backed by s.
func NewService(s Store) *Service {
	return &Service{store: s}
}

// WriteNFC writes the box snapshot through w and stores the returned tag
// id. A failed write leaves the box unchanged.
func (s *Service) WriteNFC(ctx context.Context, room *model.Room, box *model.Box, w Writer) (string, error) {
	if box == nil {
		return "", nil
	}
	payload, err := NewSnapshot(room, box).Encode()
	if err != nil {
		return "", err
	}
	tagID, err := w.Write(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("writing nfc tag: %w", err)
	}
	if err := s.AssignNFC(ctx, box, tagID); err != nil {
		return "", err
	}
	return strings.TrimSpace(tagID), nil
}

// AssignNFC associates an externally written tag with box.
func (s *Service) AssignNFC(ctx context.Context, box *model.Box, tagID string) error {
	if box == nil {
		return nil
	}
	tagID = strings.TrimSpace(tagID)
	if tagID == "" {
		return &model.ValidationError{Field: "nfc_tag", Message: "Tag-ID darf nicht leer sein"}
	}
	if err := s.store.SetBoxNFCTag(ctx, box.ID, tagID); err != nil {
		return fmt.Errorf("assigning nfc tag: %w", err)
	}
	box.NFCTag = tagID
	return nil
}

// ClearNFC removes the tag association of box.
func (s *Service) ClearNFC(ctx context.Context, box *model.Box) error {
	if box == nil {
		return nil
	}
	if err := s.store.SetBoxNFCTag(ctx, box.ID, ""); err != nil {
		return fmt.Errorf("clearing nfc tag: %w", err)
	}
	box.NFCTag = ""
	return nil
}

// ResolveQR returns the box labelled with a scanned code, or nil.
func (s *Service) ResolveQR(ctx context.Context, scanned string) (*model.Box, error) {
	code := ParseCode(scanned)
	if code == "" {
		return nil, nil
	}
	box, err := s.store.GetBoxByQRCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("resolving qr code: %w", err)
	}
	return box, nil
}
