package validate

import "github.com/waxlog/waxlog/internal/model"

// RegisterSchema validates the registration body.
var RegisterSchema = []FieldRule{
	{Field: "name", In: SourceBody, Required: true, Check: NonEmptyString,
		Message: "'name' field is required and must be a string"},
	{Field: "email", In: SourceBody, Required: true, Check: Email,
		Message: "'email' field must be a valid email address"},
	{Field: "password", In: SourceBody, Required: true, Check: StrongPassword,
		Message: "'password' field must be 8 characters long, contain at least one upper case character and one number"},
}

// LoginSchema validates the login body.
var LoginSchema = []FieldRule{
	{Field: "email", In: SourceBody, Required: true, Check: Email,
		Message: "'email' field must be a valid email address"},
	{Field: "password", In: SourceBody, Required: true, Check: NonEmptyString,
		Message: "'password' field must be a valid string"},
}

// AlbumSchema validates the album create/update body.
var AlbumSchema = []FieldRule{
	{Field: "title", In: SourceBody, Required: true, Check: NonEmptyString,
		Message: "Title is required and must be a string"},
	{Field: "artist", In: SourceBody, Required: true, Check: NonEmptyString,
		Message: "Artist is required and must be a string"},
	{Field: "genre", In: SourceBody, Required: true, Check: StringArray,
		Message: "Genre is required and must be an array of strings"},
	{Field: "year", In: SourceBody, Required: true, Check: IntBetween(model.AlbumYearMin, model.AlbumYearMax),
		Message: "Year is required and must be between 1900 and 2025"},
	{Field: "listened", In: SourceBody, Check: Bool,
		Message: "Listened must be a boolean"},
	{Field: "rating", In: SourceBody, Check: IntBetween(model.RatingMin, model.RatingMax),
		Message: "Rating must be between 0 and 10"},
	{Field: "review", In: SourceBody, Check: String,
		Message: "Review must be a string"},
}

// AlbumIDSchema validates the album route parameter.
var AlbumIDSchema = []FieldRule{
	{Field: "id", In: SourceParams, Required: true, Check: RecordID,
		Message: "Album ID 'id' parameter must be a valid id"},
}

// ReviewSchema validates the review creation body.
var ReviewSchema = []FieldRule{
	{Field: "rating", In: SourceBody, Required: true, Check: IntBetween(model.RatingMin, model.RatingMax),
		Message: "Rating is required and must be between 0 and 10"},
	{Field: "comment", In: SourceBody, Check: String,
		Message: "Comment must be a string"},
	{Field: "albumId", In: SourceBody, Required: true, Check: RecordID,
		Message: "Album ID 'albumId' field must be a valid id"},
}

// ReviewUpdateSchema validates the review update body. The referenced
// album is immutable, so albumId is not accepted here.
var ReviewUpdateSchema = []FieldRule{
	{Field: "rating", In: SourceBody, Required: true, Check: IntBetween(model.RatingMin, model.RatingMax),
		Message: "Rating is required and must be between 0 and 10"},
	{Field: "comment", In: SourceBody, Check: String,
		Message: "Comment must be a string"},
}

// ReviewIDSchema validates the review route parameter.
var ReviewIDSchema = []FieldRule{
	{Field: "id", In: SourceParams, Required: true, Check: RecordID,
		Message: "Review ID 'id' parameter must be a valid id"},
}
