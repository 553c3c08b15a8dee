package catalog

import (
	"regexp"
	"strings"
)

// PlaceholderImage is served for products without a picture
const PlaceholderImage = "https://via.placeholder.com/400x500?text=No+Image"

var driveID = regexp.MustCompile(`(?:/d/|id=)([-\w]{25,})`)

// FormatImage rewrites hosted image links into fast, directly embeddable URLs
func FormatImage(url string) string {
	if url == "" {
		return PlaceholderImage
	}

	if strings.Contains(url, "cloudinary.com") {
		if strings.Contains(url, "f_auto") || strings.Contains(url, "q_auto") {
			return url
		}
		return strings.Replace(url, "/upload/", "/upload/f_auto,q_auto/", 1)
	}

	if strings.Contains(url, "drive.google.com") || strings.Contains(url, "docs.google.com") {
		if m := driveID.FindStringSubmatch(url); m != nil {
			return "https://lh3.googleusercontent.com/d/" + m[1] + "=s1000"
		}
	}

	return url
}

// Gallery returns the main image followed by the distinct gallery images
func Gallery(mainURL, gallery string) []string {
	main := FormatImage(mainURL)
	out := []string{main}
	if gallery == "" {
		return out
	}
	for _, raw := range strings.Split(gallery, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if img := FormatImage(raw); img != main {
			out = append(out, img)
		}
	}
	return out
}
