package analysis

import (
	"github.com/invopop/jsonschema"
)

// ArtifactSchemas reflects the parser-facing input contract (the index file
// and the three detail file shapes) into JSON Schemas. Parser collaborators
// can validate their output against these before handing it to the engine.
func ArtifactSchemas() map[string]*jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	return map[string]*jsonschema.Schema{
		"index":        reflector.Reflect(Index{}),
		"conversation": reflector.Reflect(ConversationDetail{}),
		"artist":       reflector.Reflect(ArtistDetail{}),
		"channel":      reflector.Reflect(ChannelDetail{}),
	}
}
