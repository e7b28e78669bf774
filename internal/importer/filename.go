package importer

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ParseFilename pulls the patient ID and test date out of a document filename
// of the form "<id>-<timestamp>.pdf", e.g. "34766-20231015201357.pdf". The
// timestamp part is optional; when present and well-formed it becomes the
// test date.
func ParseFilename(path string) (patientID int, testDate string, err error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	idPart, stampPart, _ := strings.Cut(base, "-")

	patientID, err = strconv.Atoi(idPart)
	if err != nil || patientID <= 0 {
		return 0, "", fmt.Errorf("no patient id in filename %q", filepath.Base(path))
	}

	if stampPart != "" {
		if stamp, perr := time.Parse("20060102150405", stampPart); perr == nil {
			testDate = stamp.Format("2006-01-02")
		}
	}
	return patientID, testDate, nil
}
