package domain

// Asset points at an uploaded media object.
type Asset struct {
	URL     string `bson:"url" json:"url"`
	AssetID string `bson:"assetId" json:"assetId"`
}

type FeaturedPhoto struct {
	URL     string `bson:"url" json:"url"`
	AssetID string `bson:"assetId" json:"assetId"`
	Caption string `bson:"caption" json:"caption"`
}

// Media folders used when uploading.
const (
	FolderProfilePictures = "profile-pictures"
	FolderFeaturedPhotos  = "featured-photos"
	FolderFaculty         = "faculty"
	FolderTourGallery     = "tour-gallery"
)
