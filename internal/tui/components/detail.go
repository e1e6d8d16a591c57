package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/fotofindr/internal/domain"
	"github.com/mmcdole/fotofindr/internal/tui/styles"
)

// Detail shows one photo's metadata: indexing state, backend labels,
// and the narration URL once fetched. Label and narration failures are
// surfaced here only; they never affect the rest of the app.
type Detail struct {
	photo *domain.Photo

	labels       []string
	labelsErr    error
	labelsLoaded bool

	narrationURL string
	narrationErr error
	narrating    bool

	width  int
	height int
}

// NewDetail creates the detail component
func NewDetail() Detail {
	return Detail{}
}

// SetPhoto resets the pane for a new photo
func (d *Detail) SetPhoto(photo *domain.Photo) {
	d.photo = photo
	d.labels = nil
	d.labelsErr = nil
	d.labelsLoaded = false
	d.narrationURL = ""
	d.narrationErr = nil
	d.narrating = false
}

// Photo returns the photo being shown
func (d Detail) Photo() *domain.Photo {
	return d.photo
}

// SetLabels records the label fetch outcome
func (d *Detail) SetLabels(labels domain.PhotoLabels, err error) {
	d.labelsLoaded = true
	d.labelsErr = err
	d.labels = labels.Labels
}

// SetNarrating marks a narration fetch in flight
func (d *Detail) SetNarrating() {
	d.narrating = true
	d.narrationErr = nil
}

// SetNarration records the narration fetch outcome
func (d *Detail) SetNarration(url string, err error) {
	d.narrating = false
	d.narrationURL = url
	d.narrationErr = err
}

// SetSize updates the component dimensions
func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the component
func (d Detail) View() string {
	if d.photo == nil {
		return styles.InactiveBorder.Render(styles.DimStyle.Render("No photo selected"))
	}

	width := d.width - BorderWidth - HorizontalPadding

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(styles.Truncate(d.photo.DisplayName(), width)))
	b.WriteString("\n\n")

	b.WriteString(styles.SubtitleStyle.Render("Path   "))
	b.WriteString(styles.Truncate(d.photo.URI, width-7))
	b.WriteString("\n")

	b.WriteString(styles.SubtitleStyle.Render("Added  "))
	b.WriteString(time.Unix(d.photo.AddedAt, 0).Format("2006-01-02 15:04"))
	b.WriteString("\n")

	b.WriteString(styles.SubtitleStyle.Render("Status "))
	if d.photo.Indexed() {
		b.WriteString(styles.SuccessStyle.Render("indexed"))
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf(" (%s)", d.photo.PhotoID)))
	} else {
		b.WriteString(styles.AccentStyle.Render("pending upload"))
	}
	b.WriteString("\n\n")

	b.WriteString(styles.TitleStyle.Render("Labels"))
	b.WriteString("\n")
	switch {
	case !d.photo.Indexed():
		b.WriteString(styles.DimStyle.Render("available after indexing"))
	case d.labelsErr != nil:
		b.WriteString(styles.ErrorStyle.Render("could not load labels"))
	case !d.labelsLoaded:
		b.WriteString(styles.DimStyle.Render("loading..."))
	case len(d.labels) == 0:
		b.WriteString(styles.DimStyle.Render("none"))
	default:
		b.WriteString(styles.Truncate(strings.Join(d.labels, ", "), width))
	}
	b.WriteString("\n\n")

	b.WriteString(styles.TitleStyle.Render("Narration"))
	b.WriteString("\n")
	switch {
	case !d.photo.Indexed():
		b.WriteString(styles.DimStyle.Render("available after indexing"))
	case d.narrationErr != nil:
		b.WriteString(styles.ErrorStyle.Render("narration failed"))
	case d.narrating:
		b.WriteString(styles.DimStyle.Render("fetching..."))
	case d.narrationURL != "":
		b.WriteString(styles.Truncate(d.narrationURL, width))
	default:
		b.WriteString(styles.DimStyle.Render("press n to narrate"))
	}

	frameW, frameH := styles.ActiveBorder.GetFrameSize()
	return styles.ActiveBorder.
		Width(d.width - frameW).
		Height(d.height - frameH).
		Render(b.String())
}
