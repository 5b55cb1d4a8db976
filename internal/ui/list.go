package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/encorefm/encore/internal/formatter"
)

var (
	_ list.Item = recItem{}
)

// recItem wraps [formatter.Recommendation] to implement [list.Item].
type recItem struct {
	rec formatter.Recommendation
}

func (i recItem) FilterValue() string { return i.rec.Title }
func (i recItem) Title() string {
	title := fmt.Sprintf("%s - %s", i.rec.Artist, i.rec.Title)
	if i.rec.Liked {
		title = fmt.Sprintf("%s ♥", title)
	}
	return title
}
func (i recItem) Description() string {
	desc := fmt.Sprintf("%s • score %s", i.rec.ReasonText, i.rec.Score)
	if i.rec.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.rec.Album)
	}
	return desc
}
