package eventform

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakePicker struct {
	img    PickedImage
	cancel bool
}

func (p fakePicker) PickImage(context.Context) (PickedImage, bool, error) {
	return p.img, !p.cancel, nil
}

type fakeBlobs struct {
	paths []string
	err   error
}

func (b *fakeBlobs) Upload(_ context.Context, path string, _ []byte, _ string) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	b.paths = append(b.paths, path)
	return "/api/v1/media/" + path, nil
}

func TestAttachImageUploads(t *testing.T) {
	blobs := &fakeBlobs{}
	c, _ := newTestController(&fakeStore{}, "admin-1")
	c.deps.Blobs = blobs
	c.deps.Picker = fakePicker{img: PickedImage{URI: "file:///tmp/a.PNG", Data: []byte{1}}}
	c.OpenCreate(context.Background(), "church-1")

	url, err := c.AttachImage(context.Background())
	if err != nil {
		t.Fatalf("AttachImage: %v", err)
	}
	wantPath := fmt.Sprintf("admin-1/%d.png", testNow.UnixMilli())
	if len(blobs.paths) != 1 || blobs.paths[0] != wantPath {
		t.Errorf("Expected upload to %s, got %v", wantPath, blobs.paths)
	}
	form, _ := c.Form()
	if form.ImageURL == nil || *form.ImageURL != url {
		t.Errorf("Expected form image %s, got %v", url, form.ImageURL)
	}
}

func TestAttachImageDegradesToLocalURI(t *testing.T) {
	c, _ := newTestController(&fakeStore{}, "admin-1")
	c.deps.Blobs = &fakeBlobs{err: errors.New("bucket unavailable")}
	c.deps.Picker = fakePicker{img: PickedImage{URI: "file:///tmp/b.jpg", Ext: "jpg"}}
	c.OpenCreate(context.Background(), "church-1")

	url, err := c.AttachImage(context.Background())

	var degraded *UploadDegraded
	if !errors.As(err, &degraded) {
		t.Fatalf("Expected UploadDegraded, got %v", err)
	}
	if url != "file:///tmp/b.jpg" {
		t.Errorf("Expected local uri kept, got %s", url)
	}
	c.Update(fillValid)
	if _, err := c.SubmitCreate(context.Background()); err != nil {
		t.Errorf("Expected degraded form to stay submittable, got %v", err)
	}
}

func TestAttachImageCancelled(t *testing.T) {
	c, _ := newTestController(&fakeStore{}, "admin-1")
	c.deps.Picker = fakePicker{cancel: true}
	c.OpenCreate(context.Background(), "church-1")

	url, err := c.AttachImage(context.Background())
	if err != nil || url != "" {
		t.Errorf("Expected no-op on cancel, got %q %v", url, err)
	}
	form, _ := c.Form()
	if form.ImageURL != nil {
		t.Errorf("Expected no image, got %v", *form.ImageURL)
	}
}

func TestImageExt(t *testing.T) {
	cases := []struct {
		name string
		img  PickedImage
		want string
	}{
		{"explicit ext", PickedImage{Ext: ".JPEG"}, "jpeg"},
		{"uri ext", PickedImage{URI: "file:///tmp/a.webp"}, "webp"},
		{"jpeg content type", PickedImage{ContentType: "image/jpeg"}, "jpg"},
		{"content type with params", PickedImage{ContentType: "image/png; charset=binary"}, "png"},
		{"unsafe name falls back to content type", PickedImage{Ext: "p?ng", URI: "upload://flyer #1.p?ng", ContentType: "image/gif"}, "gif"},
		{"nothing usable", PickedImage{URI: "upload://flyer"}, "jpg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := imageExt(tc.img); got != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, got)
			}
		})
	}
}
