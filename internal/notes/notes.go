// Package notes holds the post helpers that sit outside the reducer: word
// counting, search, and image placeholders embedded in markdown content.
package notes

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sadopc/studypad/internal/calendar"
	"github.com/sadopc/studypad/internal/model"
)

// ImagePrefix starts every key of AppData.Images.
const ImagePrefix = "img_"

var placeholderRe = regexp.MustCompile(`!\[image\]\(([^)\s]+)\)`)

// WordCount is the cached length of a post's content, counted in runes so
// that CJK text counts one per character.
func WordCount(content string) int {
	return utf8.RuneCountInString(content)
}

// NewImageID returns a fresh key for AppData.Images.
func NewImageID() string {
	return ImagePrefix + model.NewID()
}

// ImagePlaceholder is the markdown reference to a stored image.
func ImagePlaceholder(id string) string {
	return fmt.Sprintf("![image](%s)", id)
}

// AttachImage appends a placeholder for id on its own line.
func AttachImage(content, id string) string {
	return content + "\n" + ImagePlaceholder(id)
}

// ImageIDs returns the image ids referenced by content, in order of first
// appearance.
func ImageIDs(content string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range placeholderRe.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	}
	return ids
}

// RenderImages replaces each placeholder with a short text marker, noting
// references whose image is no longer stored.
func RenderImages(content string, images map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(content, func(s string) string {
		id := placeholderRe.FindStringSubmatch(s)[1]
		if _, ok := images[id]; !ok {
			return "[missing image " + id + "]"
		}
		return "[image " + id + "]"
	})
}

// Search matches posts whose title, content, or the name of any existing
// tag contains term, case-insensitively. A non-nil window first restricts
// posts to those dated inside it. Results are newest first.
func Search(data model.AppData, term string, window *calendar.Window) []model.BlogPost {
	term = strings.ToLower(strings.TrimSpace(term))
	names := make(map[string]string, len(data.Tags))
	for _, t := range data.Tags {
		names[t.ID] = strings.ToLower(t.Name)
	}

	var out []model.BlogPost
	for _, p := range data.Posts {
		if window != nil && !window.Contains(p.Date) {
			continue
		}
		if matches(p, term, names) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func matches(p model.BlogPost, term string, tagNames map[string]string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), term) || strings.Contains(strings.ToLower(p.Content), term) {
		return true
	}
	for _, id := range p.TagIDs {
		if name, ok := tagNames[id]; ok && strings.Contains(name, term) {
			return true
		}
	}
	return false
}

// Excerpt returns up to n runes of content on a single line.
func Excerpt(content string, n int) string {
	line := strings.Join(strings.Fields(placeholderRe.ReplaceAllString(content, "")), " ")
	if utf8.RuneCountInString(line) <= n {
		return line
	}
	r := []rune(line)
	return string(r[:n]) + "…"
}
