// Package show carries the identity context that scopes procedural generation
// and color blending to one concert and one song. The wider system hands us a
// show.json with venue, date, and song boundaries; everything downstream only
// sees the derived seed and the active song's palette.
package show

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/JackStrawNYC/dead-air-sub002/internal/palette"
	"github.com/JackStrawNYC/dead-air-sub002/internal/prng"
)

// Identity pins every seeded generator in a render to one show. Created once
// per show and never mutated, so re-renders are bit-reproducible.
type Identity struct {
	Venue    string
	Date     string
	ShowSeed uint32
}

// Song is one setlist entry with its frame boundaries and color identity.
type Song struct {
	Title      string          `json:"title"`
	StartFrame int             `json:"start_frame"`
	EndFrame   int             `json:"end_frame"`
	Palette    palette.Palette `json:"palette"`
}

// Show is the loaded show context: identity plus the ordered setlist.
type Show struct {
	Identity Identity
	Songs    []Song
}

// file is the on-disk shape of show.json. SeedOverride forces a specific show
// seed instead of the venue+date hash, which re-renders of historical shows
// rely on.
type file struct {
	Venue        string  `json:"venue"`
	Date         string  `json:"date"`
	SeedOverride *uint32 `json:"show_seed,omitempty"`
	Songs        []Song  `json:"songs"`
}

// Load reads and validates show.json. Malformed setlists fail here, before
// any frame is rendered.
func Load(path string) (Show, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Show{}, fmt.Errorf("read show file: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return Show{}, fmt.Errorf("parse show file: %w", err)
	}
	return build(f)
}

func build(f file) (Show, error) {
	venue := strings.TrimSpace(f.Venue)
	date := strings.TrimSpace(f.Date)
	if venue == "" && date == "" && f.SeedOverride == nil {
		return Show{}, errors.New("show file needs venue and date (or an explicit show_seed)")
	}

	id := Identity{Venue: venue, Date: date}
	if f.SeedOverride != nil {
		id.ShowSeed = *f.SeedOverride
	} else {
		id.ShowSeed = DeriveSeed(venue, date)
	}

	songs := make([]Song, len(f.Songs))
	copy(songs, f.Songs)
	sort.SliceStable(songs, func(i, j int) bool {
		return songs[i].StartFrame < songs[j].StartFrame
	})

	for i := range songs {
		s := &songs[i]
		if strings.TrimSpace(s.Title) == "" {
			return Show{}, fmt.Errorf("song %d: title is required", i+1)
		}
		if s.StartFrame < 0 {
			return Show{}, fmt.Errorf("song %q: start_frame must be non-negative", s.Title)
		}
		if s.EndFrame <= s.StartFrame {
			return Show{}, fmt.Errorf("song %q: end_frame must be after start_frame", s.Title)
		}
		if i > 0 && s.StartFrame < songs[i-1].EndFrame {
			return Show{}, fmt.Errorf("song %q overlaps %q", s.Title, songs[i-1].Title)
		}
		s.Palette = s.Palette.Normalized()
	}

	return Show{Identity: id, Songs: songs}, nil
}

// DeriveSeed hashes venue and date into the 32-bit show seed.
func DeriveSeed(venue, date string) uint32 {
	return prng.SeedString(venue + "|" + date)
}

// SongAt returns the setlist index of the song playing at the given frame, or
// -1 when the frame falls between songs or past the setlist.
func (s Show) SongAt(frame int) int {
	for i, song := range s.Songs {
		if frame >= song.StartFrame && frame < song.EndFrame {
			return i
		}
	}
	return -1
}

// PaletteAt returns the active song's palette for a frame. Frames outside any
// song get the neutral palette, so consumers never null-check.
func (s Show) PaletteAt(frame int) palette.Palette {
	if i := s.SongAt(frame); i >= 0 {
		return s.Songs[i].Palette
	}
	return palette.Neutral()
}
