package npmregistry

var (
	RegistrySpec  = registrySpec
	DistIntegrity = distIntegrity
)

// PickVersion resolves rng against a packument made of tags and versions.
func PickVersion(tags map[string]string, versions []string, rng string) (string, error) {
	doc := &packument{DistTags: tags, Versions: make(map[string]*versionDoc, len(versions))}
	for _, v := range versions {
		doc.Versions[v] = &versionDoc{Version: v}
	}
	return pickVersion(doc, rng)
}
