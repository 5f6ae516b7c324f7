package office

import (
	"math"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
)

// twipsPerMillimeter is the single scale between configuration lengths and WordprocessingML
// lengths: 1440 twips per inch, 25.4 mm per inch.
const twipsPerMillimeter = 1440 / 25.4

const emuPerMillimeter = 36000

// emuPerPixel assumes 96 dpi source images.
const emuPerPixel = 9525

// MillimetersToTwips converts a length to whole twips.
func MillimetersToTwips(mm float64) int {
	return int(math.Round(mm * twipsPerMillimeter))
}

// TwipsToMillimeters converts twips back to millimeters rounded to 0.1 mm, which
// recovers every length given with 0.1 mm precision.
func TwipsToMillimeters(twips int) float64 {
	return math.Round(float64(twips)/twipsPerMillimeter*10) / 10
}

// PageSize returns the portrait page size in twips.
func PageSize(paper models.PaperSize) (width, height int) {
	w, h := paper.Dimensions()
	return MillimetersToTwips(w), MillimetersToTwips(h)
}

func millimetersToEMU(mm float64) int64 {
	return int64(math.Round(mm * emuPerMillimeter))
}

// fitBox scales a pixel size into a box given in millimeters, keeping the aspect
// ratio and never enlarging.
func fitBox(widthPx, heightPx int, boxWidthMM, boxHeightMM float64) (cx, cy int64) {
	cx, cy = int64(widthPx)*emuPerPixel, int64(heightPx)*emuPerPixel
	maxX, maxY := millimetersToEMU(boxWidthMM), millimetersToEMU(boxHeightMM)
	if cx <= 0 || cy <= 0 {
		return maxX, maxY
	}
	scale := math.Min(1, math.Min(float64(maxX)/float64(cx), float64(maxY)/float64(cy)))
	return int64(math.Round(float64(cx) * scale)), int64(math.Round(float64(cy) * scale))
}
