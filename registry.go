package journey

// CanvasID returns the canvas identifier paired with a section identifier.
func CanvasID(sectionID string) string {
	return sectionID + "-canvas"
}

func stateless(id string, draw DrawFunc, data DataFunc) StatelessScene {
	return StatelessScene{ID: id, SectionID: id, CanvasID: CanvasID(id), Draw: draw, NewData: data}
}

// Scenes returns the narrative beats in order. The lensing beat renders
// through lens; pass EbitenLensConfig for on-screen use.
func Scenes(lens LensConfig) []Scene {
	workbench := stateless("workbench", drawWorkbench, newWorkbenchData)
	workbench.Autonomous = true

	return []Scene{
		stateless("origin", drawOrigin, starfieldGenerator(160)),
		stateless("comet", drawComet, newCometData),
		stateless("lens", drawLensFocus, nil),
		LensScene("lensing", "lensing", CanvasID("lensing"), lens),
		stateless("network", drawNetwork, newNetworkData),
		stateless("compass", drawCompass, nil),
		stateless("slingshot", drawSlingshot, starfieldGenerator(80)),
		stateless("airplane", drawAirplane, nil),
		workbench,
		stateless("shatter", drawShatter, newShatterData),
		stateless("constellation", drawConstellation, newConstellationData),
		stateless("nebula", drawNebula, newNebulaData),
		stateless("signal", drawSignal, nil),
		stateless("eclipse", drawEclipse, nil),
		stateless("launch", drawLaunch, starfieldGenerator(120)),
		stateless("pulsar", drawPulsar, starfieldGenerator(100)),
		stateless("bridge", drawBridge, nil),
		stateless("wormhole", drawWormhole, nil),
		stateless("horizon", drawHorizon, starfieldGenerator(120)),
	}
}

// SceneIDs returns the identifiers of scenes in order.
func SceneIDs(scenes []Scene) []string {
	ids := make([]string, len(scenes))
	for i, s := range scenes {
		ids[i] = s.Key()
	}
	return ids
}
