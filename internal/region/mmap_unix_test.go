//go:build unix

package region

import "testing"

func TestReserveMmapUnix(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}
	r, err := Reserve(4096, Mmap)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if len(r.Data) != 4096 {
		t.Fatalf("len=%d want 4096", len(r.Data))
	}
	for i := 0; i < len(r.Data); i += 512 {
		if r.Data[i] != 0 {
			t.Fatalf("byte %d not zeroed: 0x%x", i, r.Data[i])
		}
	}
	r.Data[0] = 0xDE
	r.Data[4095] = 0xAD
	if r.Data[0] != 0xDE || r.Data[4095] != 0xAD {
		t.Fatalf("mapping not writable")
	}
	if err := r.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := r.Release(); err != nil {
		t.Fatalf("double Release should be a no-op, got %v", err)
	}
}
