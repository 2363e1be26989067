package constant

const (
	// In-process topic carried by the watermill channel.
	TrainingMaterialsChangedTopic = "TRAINING_MATERIALS_CHANGED"

	// Cross-instance subject on the EVENTS JetStream stream.
	TrainingMaterialsChangedSubject = "events.training_materials.changed"

	HubClusterChannel = "cluster_events"
)
