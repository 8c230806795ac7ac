package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteExcelize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	header := []string{"user_login", "count"}
	rows := [][]string{{"alice", "3"}, {"bob", "1"}}
	if err := writeExcelize(path, header, rows); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3", len(got))
	}
	if got[0][0] != "user_login" || got[1][0] != "alice" || got[2][1] != "1" {
		t.Errorf("sheet rows = %v", got)
	}
}
