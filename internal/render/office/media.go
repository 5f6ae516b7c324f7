package office

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// maxSourcePixels bounds the longest side of an embedded image; larger sources are
// downscaled once before they are stored in the package.
const maxSourcePixels = 2000

// mediaItem is one distinct image stored under word/media.
type mediaItem struct {
	RelID       string
	Name        string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// mediaRegistry decodes each distinct payload once and hands out shared package parts.
type mediaRegistry struct {
	firstRel int
	byHash   map[[sha256.Size]byte]*mediaItem
	items    []*mediaItem
	failed   map[[sha256.Size]byte]bool
}

func newMediaRegistry(firstRel int) *mediaRegistry {
	return &mediaRegistry{
		firstRel: firstRel,
		byHash:   make(map[[sha256.Size]byte]*mediaItem),
		failed:   make(map[[sha256.Size]byte]bool),
	}
}

// add registers an image payload. It reports false for payloads that cannot be decoded.
func (m *mediaRegistry) add(data []byte) (*mediaItem, bool) {
	sum := sha256.Sum256(data)
	if item, ok := m.byHash[sum]; ok {
		return item, true
	}
	if m.failed[sum] {
		return nil, false
	}

	item, err := prepareImage(data)
	if err != nil {
		m.failed[sum] = true
		return nil, false
	}
	n := len(m.items) + 1
	item.RelID = fmt.Sprintf("rId%d", m.firstRel+n-1)
	item.Name = fmt.Sprintf("image%d.%s", n, extension(item.ContentType))
	m.byHash[sum] = item
	m.items = append(m.items, item)
	return item, true
}

// prepareImage keeps png/jpeg/gif sources as they are unless oversized; other decodable
// formats (webp, bmp) and oversized images are re-encoded.
func prepareImage(data []byte) (*mediaItem, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image has no area")
	}

	native := format == "png" || format == "jpeg" || format == "gif"
	oversized := cfg.Width > maxSourcePixels || cfg.Height > maxSourcePixels
	if native && !oversized {
		return &mediaItem{ContentType: "image/" + format, Data: data, Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if oversized {
		img = imaging.Fit(img, maxSourcePixels, maxSourcePixels, imaging.Lanczos)
	}

	target, contentType := imaging.PNG, "image/png"
	if format == "jpeg" {
		target, contentType = imaging.JPEG, "image/jpeg"
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, target, imaging.JPEGQuality(90)); err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	return &mediaItem{ContentType: contentType, Data: buf.Bytes(), Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpeg"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}
