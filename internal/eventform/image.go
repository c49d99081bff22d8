package eventform

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
)

const (
	defaultImageExt = "jpg"
	maxExtLen       = 8
)

// AttachImage lets the user pick an image and uploads it to
// {userID}/{unixMillis}.{ext}. The returned URL is what the draft now holds.
// When the user cancels nothing changes and url is empty. When the upload
// fails the local URI is kept and an *UploadDegraded is returned; the draft
// remains submittable.
func (c *Controller) AttachImage(ctx context.Context) (url string, err error) {
	if _, ok := c.Form(); !ok {
		return "", ErrFormClosed
	}
	userID, ok := c.currentUser()
	if !ok {
		return "", c.fail(ctx, ErrNotSignedIn, "action", "attachImage")
	}
	if c.deps.Picker == nil {
		return "", nil
	}
	img, picked, err := c.deps.Picker.PickImage(ctx)
	if err != nil {
		return "", c.fail(ctx, fmt.Errorf("pick image: %w", err), "user_id", userID)
	}
	if !picked {
		return "", nil
	}

	key := fmt.Sprintf("%s/%d.%s", userID, c.deps.Clock.Now().UnixMilli(), imageExt(img))

	var uploadErr error
	url = img.URI
	if c.deps.Blobs == nil {
		uploadErr = fmt.Errorf("no blob store configured")
	} else if public, err := c.deps.Blobs.Upload(ctx, key, img.Data, img.ContentType); err != nil {
		uploadErr = err
	} else {
		url = public
	}

	if err := c.Update(func(f StagedEventForm) StagedEventForm { return f.WithImageURL(&url) }); err != nil {
		return "", err
	}
	if uploadErr != nil {
		return url, c.fail(ctx, &UploadDegraded{Warning: "image upload failed, keeping the local copy", Err: uploadErr}, "path", key)
	}
	return url, nil
}

// preferredExt pins the extension for common image types, since the mime
// table lists several per type in no useful order
var preferredExt = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/heic": "heic",
}

func imageExt(img PickedImage) string {
	if ext := cleanExt(img.Ext); ext != "" {
		return ext
	}
	if ext := cleanExt(path.Ext(img.URI)); ext != "" {
		return ext
	}
	if img.ContentType != "" {
		mediaType, _, err := mime.ParseMediaType(img.ContentType)
		if err != nil {
			return defaultImageExt
		}
		if ext, ok := preferredExt[mediaType]; ok {
			return ext
		}
		if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
			if ext := cleanExt(exts[0]); ext != "" {
				return ext
			}
		}
	}
	return defaultImageExt
}

// cleanExt lowercases ext and drops it unless it is plain [a-z0-9], so it is
// safe inside a blob key and URL
func cleanExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" || len(ext) > maxExtLen {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
