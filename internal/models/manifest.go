package models

/**
 * Remote manifest describing the latest available package (serialized JSON)
 * @property {string} version - Latest available version string
 * @property {string} download_url - Location of the package archive
 * @property {string} notes - Release notes, may be empty
 */
type UpdateManifest struct {
	Version     string `json:"version"`
	DownloadURL string `json:"download_url"`
	Notes       string `json:"notes"`
}

/**
 * Optional version descriptor found at the root of an extracted package
 * @property {string} version - Version string carried by the package
 */
type VersionDescriptor struct {
	Version string `json:"version"`
}
