package scene

// Timeline is an ordered stack of Layers shared by the document's main
// stage and every Symbol.
type Timeline struct {
	Name   string
	Layers []Layer

	TotalFrames int

	// CameraLayerIndex points at the detected camera layer (§4.4), nil if none.
	CameraLayerIndex *int

	// ReferenceLayers holds indices of layers that are never rendered
	// (guide/folder/camera, or conservatively-detected scaffolding, §4.4).
	ReferenceLayers map[int]struct{}
}

// IsReferenceLayer reports whether layerIndex is in ReferenceLayers.
func (t Timeline) IsReferenceLayer(layerIndex int) bool {
	if t.ReferenceLayers == nil {
		return false
	}
	_, ok := t.ReferenceLayers[layerIndex]
	return ok
}
