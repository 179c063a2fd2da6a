package forms

import (
	"fmt"
	"mime/multipart"
	"strings"
)

type PhotoEntry struct {
	Prefix  string            `json:"prefix"`
	ID      string            `json:"id,omitempty"`
	Image   string            `json:"image,omitempty"` // file name of the upload, if any
	Caption string            `json:"caption"`
	Delete  bool              `json:"DELETE,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`

	id   uint64
	file *multipart.FileHeader
}

// PhotoID is 0 for new photos
func (p *PhotoEntry) PhotoID() uint64 {
	return p.id
}

func (p *PhotoEntry) File() *multipart.FileHeader {
	return p.file
}

func (p *PhotoEntry) empty() bool {
	return strings.TrimSpace(p.ID) == "" && p.file == nil && strings.TrimSpace(p.Caption) == ""
}

// Skipped entries neither create, change nor remove anything
func (p *PhotoEntry) Skipped() bool {
	return p.empty() || (strings.TrimSpace(p.ID) == "" && p.Delete)
}

// Removes reports an existing photo marked for deletion
func (p *PhotoEntry) Removes() bool {
	return !p.Skipped() && p.Delete
}

func (p *PhotoEntry) validate(allowed map[uint64]bool) bool {
	p.Errors = map[string]string{}
	id, ok := parseID(p.ID)
	if !ok || (id != 0 && !allowed[id]) {
		p.Errors["id"] = msgInvalidID
		return false
	}
	p.id = id
	if p.Delete {
		return true
	}
	if p.file == nil && id == 0 {
		p.Errors["image"] = msgRequired
	} else if p.file != nil && !isImage(p.file) {
		p.Errors["image"] = msgInvalidImage
	}
	return len(p.Errors) == 0
}

// PhotoSet is a visit photo set or the nested photo set of one item
type PhotoSet struct {
	Prefix  string       `json:"prefix"`
	Entries []PhotoEntry `json:"entries"`
	Errors  []string     `json:"errors,omitempty"`

	max int
}

func parsePhotoSet(v values, prefix string, max int) PhotoSet {
	set := PhotoSet{Prefix: prefix, Entries: []PhotoEntry{}, max: max}
	total, err := v.totalForms(prefix)
	if err != nil {
		set.Errors = append(set.Errors, err.Error())
		return set
	}
	for i := 0; i < total; i++ {
		entryPrefix := fmt.Sprintf("%s-%d", prefix, i)
		entry := PhotoEntry{
			Prefix:  entryPrefix,
			ID:      v.get(entryPrefix + "-id"),
			Caption: v.get(entryPrefix + "-caption"),
			Delete:  v.checked(entryPrefix + "-DELETE"),
			file:    v.file(entryPrefix + "-image"),
		}
		if entry.file != nil {
			entry.Image = entry.file.Filename
		}
		set.Entries = append(set.Entries, entry)
	}
	return set
}

// Active counts entries that will exist after saving
func (s *PhotoSet) Active() (count int) {
	for i := range s.Entries {
		if !s.Entries[i].Skipped() && !s.Entries[i].Delete {
			count++
		}
	}
	return
}

// kept counts the photos left after saving: the active entries plus the
// allowed photos that no entry mentions
func (s *PhotoSet) kept(allowed map[uint64]bool) int {
	count := s.Active()
	mentioned := map[uint64]bool{}
	for i := range s.Entries {
		if id, ok := parseID(s.Entries[i].ID); ok && !s.Entries[i].Skipped() {
			mentioned[id] = true
		}
	}
	for id := range allowed {
		if !mentioned[id] {
			count++
		}
	}
	return count
}

// validate checks every entry. allowed holds the ids of the photos that
// may be referenced (those already owned by the parent).
func (s *PhotoSet) validate(allowed map[uint64]bool) bool {
	valid := len(s.Errors) == 0
	for i := range s.Entries {
		entry := &s.Entries[i]
		if entry.Skipped() {
			continue
		}
		if !entry.validate(allowed) {
			valid = false
		}
	}
	if s.kept(allowed) > s.max {
		s.Errors = append(s.Errors, fmt.Sprintf("Please submit at most %d photos.", s.max))
		valid = false
	}
	return valid
}
