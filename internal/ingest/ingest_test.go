package ingest

import (
	"errors"
	"testing"

	"go-deal-recon/internal/model"
)

func TestReadCSV(t *testing.T) {
	data := []byte("Deal ID,Total USD,Insurance Cost\nD1,100,5\nD2,25.5,\n")
	tbl, err := ReadCSV(data)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	keys := tbl.Keys()
	want := []string{"deal_id", "total_usd", "insurance_cost"}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
	if got := tbl.Value(0, "total_usd"); got != 100 {
		t.Errorf("Value(0, total_usd) = %v (%T), want int 100", got, got)
	}
	if got := tbl.Value(1, "total_usd"); got != 25.5 {
		t.Errorf("Value(1, total_usd) = %v, want 25.5", got)
	}
}

func TestReadCSVRaggedRows(t *testing.T) {
	data := []byte("A,B,C\n1,2\nx,y,z,extra\n")
	tbl, err := ReadCSV(data)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	if got := tbl.Value(0, "c"); got != nil {
		t.Errorf("short row cell = %v, want nil", got)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(nil)
	var inputErr *model.InputError
	if !errors.As(err, &inputErr) {
		t.Errorf("err = %v, want InputError", err)
	}
}

func TestReadExcelEmpty(t *testing.T) {
	_, err := ReadExcel(nil, "")
	var inputErr *model.InputError
	if !errors.As(err, &inputErr) {
		t.Errorf("err = %v, want InputError", err)
	}
}

func TestReadDispatchesOnExtension(t *testing.T) {
	data := []byte("Deal,Qty\nD1,5\n")
	tbl, err := Read("upload.CSV", data)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 1 {
		t.Errorf("rows = %d, want 1", tbl.Len())
	}
}
