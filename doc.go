package rename

// This package defines common methods and operations for batch-renaming geotagged images captured for photogrammetry workflows. Common operations include: enumerating image files, extracting EXIF capture metadata, generating deterministic destination names, materializing (copying or moving) files and exporting a per-file rename table.
