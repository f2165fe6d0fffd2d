package domain

type MediaType string

const (
	MediaMovie    MediaType = "movie"
	MediaTV       MediaType = "tv"
	MediaEpisode  MediaType = "episode"
	MediaMusic    MediaType = "music"
	MediaUnsorted MediaType = "unsorted"
)

func (m MediaType) Valid() bool {
	switch m {
	case MediaMovie, MediaTV, MediaEpisode, MediaMusic, MediaUnsorted:
		return true
	default:
		return false
	}
}

// SupportsSearch reports whether the media search endpoint accepts this type.
func (m MediaType) SupportsSearch() bool {
	switch m {
	case MediaMovie, MediaTV, MediaEpisode:
		return true
	default:
		return false
	}
}
