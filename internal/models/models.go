package models

import "time"

// Category is one of the fixed remote catalog listing modes.
type Category string

const (
	CategoryPopular    Category = "popular"
	CategoryTopRated   Category = "top_rated"
	CategoryUpcoming   Category = "upcoming"
	CategoryNowPlaying Category = "now_playing"
	CategoryTrending   Category = "trending"
	CategoryGenre      Category = "genre"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryPopular, CategoryTopRated, CategoryUpcoming, CategoryNowPlaying, CategoryTrending, CategoryGenre:
		return true
	}
	return false
}

// TrendingWindow selects the trending aggregation period.
type TrendingWindow string

const (
	TrendingDay  TrendingWindow = "day"
	TrendingWeek TrendingWindow = "week"
)

// Movie is a catalog entry as returned by TMDB. Movies are never mutated
// locally; extended fields are populated only by a detail fetch.
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`

	// Detail-only fields.
	Genres  []Genre      `json:"genres,omitempty"`
	Runtime int          `json:"runtime,omitempty"`
	Tagline string       `json:"tagline,omitempty"`
	Credits *Credits     `json:"credits,omitempty"`
	Videos  *VideoList   `json:"videos,omitempty"`
	Similar *SimilarList `json:"similar,omitempty"`
}

// Genre is a remote genre: id plus display name.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Credits holds cast and crew from a detail fetch.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember is an actor credit.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// CrewMember is a production credit.
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// Video is a trailer/teaser reference.
type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// VideoList wraps the appended videos subresource.
type VideoList struct {
	Results []Video `json:"results"`
}

// SimilarList wraps the appended similar-titles subresource.
type SimilarList struct {
	Results []Movie `json:"results"`
}

// MoviePage is the normalized envelope shared by every list endpoint.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// CollectionItem is the locally-owned projection of a Movie kept in the
// favorites and watchlist collections.
type CollectionItem struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	PosterPath  string    `json:"poster_path"`
	ReleaseDate string    `json:"release_date"`
	VoteAverage float64   `json:"vote_average"`
	AddedAt     time.Time `json:"added_at"`
}

// NewCollectionItem snapshots a movie into a collection entry.
func NewCollectionItem(m Movie, now time.Time) CollectionItem {
	return CollectionItem{
		ID:          m.ID,
		Title:       m.Title,
		PosterPath:  m.PosterPath,
		ReleaseDate: m.ReleaseDate,
		VoteAverage: m.VoteAverage,
		AddedAt:     now,
	}
}

// Review is a locally-owned user review. Reviews are append-only: there is
// no update or delete, and several reviews may exist for one movie.
type Review struct {
	ID        string    `json:"id"`
	MovieID   int       `json:"movie_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}
