package phash

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// ─── fixture image builders ──────────────────────────────────

func solidGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func checkerGray(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 1 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func noiseNRGBA(w, h int, seed uint32) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	s := seed
	for i := 0; i < len(img.Pix); i += 4 {
		s = s*1664525 + 1013904223
		img.Pix[i] = uint8(s >> 24)
		img.Pix[i+1] = uint8(s >> 16)
		img.Pix[i+2] = uint8(s >> 8)
		img.Pix[i+3] = 255
	}
	return img
}

func mustOtsu(t *testing.T, cfg Config) *OtsuHasher {
	t.Helper()
	h, err := NewOtsu(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

// ─── scenarios ───────────────────────────────────────────────

func TestOtsu_SolidWhite(t *testing.T) {
	h := mustOtsu(t, DefaultConfig())
	r, err := h.Analyze(solidGray(8, 8, 255))
	if err != nil {
		t.Fatal(err)
	}
	if r.Threshold != 0 {
		t.Errorf("threshold: got %v, want 0", r.Threshold)
	}
	if r.Hash != "ffffffffffffffff" {
		t.Errorf("hash: got %q, want ffffffffffffffff", r.Hash)
	}
}

func TestOtsu_Checkerboard(t *testing.T) {
	h := mustOtsu(t, DefaultConfig())
	r, err := h.Analyze(checkerGray(8, 8))
	if err != nil {
		t.Fatal(err)
	}
	if r.Threshold <= 0 || r.Threshold >= 255 {
		t.Fatalf("threshold %v not strictly inside (0,255)", r.Threshold)
	}
	// Row 0 is 01010101, row 1 is 10101010, and so on.
	if r.Hash != "55aa55aa55aa55aa" {
		t.Errorf("hash: got %q, want 55aa55aa55aa55aa", r.Hash)
	}
	bits, err := Decode(r.Hash, h.Config())
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := (x+y)%2 == 1
			if bits[y*8+x] != want || r.Bit(x, y) != want {
				t.Fatalf("cell (%d,%d): decoded %v, result %v, want %v", x, y, bits[y*8+x], r.Bit(x, y), want)
			}
		}
	}
}

func TestOtsu_HistogramConservation(t *testing.T) {
	h := mustOtsu(t, Config{Width: 13, Height: 5, Radix: 16})
	r, err := h.Analyze(noiseNRGBA(100, 80, 7))
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, c := range r.Histogram {
		total += c
	}
	if total != 13*5 || len(r.Samples) != 13*5 {
		t.Errorf("histogram total %d, samples %d, want %d", total, len(r.Samples), 13*5)
	}
}

// ─── properties ──────────────────────────────────────────────

func TestHash_Deterministic(t *testing.T) {
	img := noiseNRGBA(64, 48, 1)
	for _, name := range Algorithms() {
		h, err := New(name, DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		a, err := h.Hash(img)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		for i := 0; i < 3; i++ {
			if b, _ := h.Hash(img); b != a {
				t.Fatalf("%s: run %d got %q, want %q", name, i, b, a)
			}
		}
	}
}

func TestHash_FixedLength(t *testing.T) {
	images := []image.Image{
		solidGray(8, 8, 0),
		solidGray(8, 8, 255),
		checkerGray(16, 16),
		noiseNRGBA(40, 30, 3),
		noiseNRGBA(3, 2, 9),
	}
	configs := []Config{
		DefaultConfig(),
		{Width: 8, Height: 8, Radix: 2},
		{Width: 8, Height: 8, Radix: 10},
		{Width: 8, Height: 8, Radix: 36},
		{Width: 5, Height: 3, Radix: 7},
		{Width: 16, Height: 16, Radix: 32},
	}
	for _, cfg := range configs {
		for _, name := range []string{Otsu, Average} {
			h, err := New(name, cfg)
			if err != nil {
				t.Fatal(err)
			}
			for i, img := range images {
				s, err := h.Hash(img)
				if err != nil {
					t.Fatalf("%s %s image %d: %v", name, cfg, i, err)
				}
				if len(s) != cfg.DigitLen() {
					t.Errorf("%s %s image %d: %q has length %d, want %d", name, cfg, i, s, len(s), cfg.DigitLen())
				}
			}
		}
	}
}

func TestHash_RadixRoundTrip(t *testing.T) {
	img := noiseNRGBA(50, 50, 11)
	hex := mustOtsu(t, DefaultConfig())
	bin := mustOtsu(t, DefaultConfig().WithRadix(2))

	hs, _ := hex.Hash(img)
	bs, _ := bin.Hash(img)

	a, _ := new(big.Int).SetString(hs, 16)
	b, _ := new(big.Int).SetString(bs, 2)
	if a == nil || b == nil || a.Cmp(b) != 0 {
		t.Errorf("hex %s and binary %s disagree", hs, bs)
	}
}

func TestHash_ConcurrentUse(t *testing.T) {
	h := mustOtsu(t, DefaultConfig())
	img := noiseNRGBA(32, 32, 5)
	want, _ := h.Hash(img)

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, _ := h.Hash(img); got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent hash %q, want %q", got, want)
	}
}

func TestCompare(t *testing.T) {
	mk := func(w, h, r int) Hasher { return mustOtsu(t, Config{Width: w, Height: h, Radix: r}) }
	a, b, c := mk(4, 8, 2), mk(8, 4, 36), mk(8, 8, 16)

	if Compare(a, b) >= 0 || Compare(b, c) >= 0 || Compare(a, c) >= 0 {
		t.Error("expected (4,8) < (8,4) < (8,8)")
	}
	if Compare(c, a) <= 0 {
		t.Error("expected (8,8) > (4,8)")
	}
	if Compare(mk(8, 8, 2), mk(8, 8, 36)) != 0 {
		t.Error("radix must not affect ordering")
	}

	hs := []Hasher{c, a, b}
	Sort(hs)
	if hs[0] != a || hs[1] != b || hs[2] != c {
		t.Errorf("sorted order: %v", hs)
	}
}

// ─── configuration ───────────────────────────────────────────

func TestConfig_Validate(t *testing.T) {
	bad := []Config{
		{Width: 0, Height: 8, Radix: 16},
		{Width: 8, Height: -1, Radix: 16},
		{Width: 8, Height: 8, Radix: 1},
		{Width: 8, Height: 8, Radix: 37},
	}
	for _, cfg := range bad {
		if _, err := NewOtsu(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("NewOtsu(%s): got %v, want ErrInvalidConfig", cfg, err)
		}
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfig_WithIsCopy(t *testing.T) {
	base := DefaultConfig()
	wide := base.WithWidth(16).WithRadix(2)
	if base != DefaultConfig() {
		t.Errorf("base mutated: %s", base)
	}
	if wide.Width != 16 || wide.Height != 8 || wide.Radix != 2 || wide.BitCount() != 128 {
		t.Errorf("unexpected copy: %s", wide)
	}
	if sq := base.WithSize(4); sq.Width != 4 || sq.Height != 4 {
		t.Errorf("WithSize: %s", sq)
	}
}

func TestNew_UnknownAlgorithm(t *testing.T) {
	if _, err := New("wavelet", DefaultConfig()); !IsKind(err, KindInvalidConfig) {
		t.Errorf("got %v", err)
	}
}

// ─── errors ──────────────────────────────────────────────────

func TestHash_Degenerate(t *testing.T) {
	for _, name := range Algorithms() {
		h, _ := New(name, DefaultConfig())
		if _, err := h.Hash(image.NewGray(image.Rect(0, 0, 0, 0))); !errors.Is(err, ErrDegenerate) {
			t.Errorf("%s zero-area: got %v", name, err)
		}
		if _, err := h.Hash(nil); !errors.Is(err, ErrDegenerate) {
			t.Errorf("%s nil: got %v", name, err)
		}
	}
	if _, err := Reduce(image.NewGray(image.Rect(0, 0, 3, 0))); !errors.Is(err, ErrDegenerate) {
		t.Errorf("reduce zero-area: got %v", err)
	}
}

func TestHashBytes(t *testing.T) {
	h := mustOtsu(t, DefaultConfig())
	var buf bytes.Buffer
	if err := png.Encode(&buf, checkerGray(8, 8)); err != nil {
		t.Fatal(err)
	}
	s, err := HashBytes(h, buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if s != "55aa55aa55aa55aa" {
		t.Errorf("got %q", s)
	}

	_, err = HashBytes(h, []byte("not an image"))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("junk bytes: got %v", err)
	}
}

func TestHashFile(t *testing.T) {
	h := mustOtsu(t, DefaultConfig())
	dir := t.TempDir()
	path := filepath.Join(dir, "white.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	png.Encode(f, solidGray(20, 20, 255))
	f.Close()

	s, err := HashFile(h, path)
	if err != nil {
		t.Fatal(err)
	}
	if s != "ffffffffffffffff" {
		t.Errorf("got %q", s)
	}
	if _, err := HashFile(h, filepath.Join(dir, "nope.png")); !errors.Is(err, ErrDecode) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}
}

func TestHashURL(t *testing.T) {
	var buf bytes.Buffer
	png.Encode(&buf, checkerGray(8, 8))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	h := mustOtsu(t, DefaultConfig())
	s, err := HashURL(context.Background(), h, srv.URL+"/checker.png")
	if err != nil {
		t.Fatal(err)
	}
	if s != "55aa55aa55aa55aa" {
		t.Errorf("got %q", s)
	}
	if _, err := HashURL(context.Background(), h, srv.URL+"/gone"); !errors.Is(err, ErrDecode) {
		t.Errorf("410: got %v", err)
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := Decode("ffff", DefaultConfig()); !errors.Is(err, ErrDecode) {
		t.Errorf("short hash: got %v", err)
	}
	if _, err := Decode("ffffffffffffffff", DefaultConfig().WithRadix(99)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad radix: got %v", err)
	}
}

func TestError_Message(t *testing.T) {
	err := errorf(KindDegenerate, "otsu hash", "image has no pixels (%dx%d)", 0, 0)
	want := "phash: otsu hash: degenerate input: image has no pixels (0x0)"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
	if errors.Is(err, ErrDecode) {
		t.Error("degenerate error matched ErrDecode")
	}
}

// ─── variants ────────────────────────────────────────────────

func TestAverage_SolidIsZero(t *testing.T) {
	h, _ := NewAverage(DefaultConfig())
	s, err := h.Hash(solidGray(8, 8, 200))
	if err != nil {
		t.Fatal(err)
	}
	if s != "0000000000000000" {
		t.Errorf("got %q", s)
	}
}

func TestAverage_Checkerboard(t *testing.T) {
	h, _ := NewAverage(DefaultConfig())
	s, _ := h.Hash(checkerGray(8, 8))
	if s != "55aa55aa55aa55aa" {
		t.Errorf("got %q", s)
	}
}

func TestPerception(t *testing.T) {
	h, err := NewPerception(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	s, err := h.Hash(noiseNRGBA(64, 64, 13))
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 16 {
		t.Errorf("length: got %d", len(s))
	}
	if _, err := NewPerception(Config{Width: 4, Height: 4, Radix: 16}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("4x4: got %v", err)
	}
	if _, err := NewPerception(Config{Width: 12, Height: 8, Radix: 16}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("12x8: got %v", err)
	}
}

func TestPerception_NonSquareRejected(t *testing.T) {
	for _, cfg := range []Config{
		{Width: 4, Height: 16, Radix: 16},
		{Width: 16, Height: 4, Radix: 16},
		{Width: 16, Height: 8, Radix: 32},
	} {
		if _, err := NewPerception(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: got %v, want invalid configuration", cfg, err)
		}
		if _, err := New(Perception, cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("New %s: got %v, want invalid configuration", cfg, err)
		}
	}

	h, err := NewPerception(Config{Width: 16, Height: 16, Radix: 16})
	if err != nil {
		t.Fatal(err)
	}
	s, err := h.Hash(noiseNRGBA(64, 64, 3))
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 64 {
		t.Errorf("16x16 length: got %d, want 64", len(s))
	}
}

func TestOtsu_AreaLargeSource(t *testing.T) {
	h, err := NewOtsu(Config{Width: 1, Height: 1, Radix: 16}, WithFilter(FilterArea))
	if err != nil {
		t.Fatal(err)
	}
	r, err := h.Analyze(solidGray(5000, 5000, 255))
	if err != nil {
		t.Fatal(err)
	}
	if r.Samples[0] != 255 {
		t.Errorf("sample: got %d, want 255", r.Samples[0])
	}
}

// ─── reduction ───────────────────────────────────────────────

func TestReduce(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 30, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 30; x++ {
			v := uint8(20)
			if x >= 15 {
				v = 230
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	bw, err := Reduce(img)
	if err != nil {
		t.Fatal(err)
	}
	if bw.Bounds().Dx() != 30 || bw.Bounds().Dy() != 10 {
		t.Fatalf("bounds: %v", bw.Bounds())
	}
	if bw.GrayAt(0, 0).Y != 0 || bw.GrayAt(29, 9).Y != 255 {
		t.Errorf("left %d right %d", bw.GrayAt(0, 0).Y, bw.GrayAt(29, 9).Y)
	}

	white, _ := Reduce(solidGray(5, 5, 255))
	for _, p := range white.Pix {
		if p != 255 {
			t.Fatal("solid white should reduce to white")
		}
	}
}

func BenchmarkOtsuHash(b *testing.B) {
	h, _ := NewOtsu(DefaultConfig())
	img := noiseNRGBA(256, 256, 1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Hash(img)
	}
}
