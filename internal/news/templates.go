package news

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// templatesFile is the on-disk shape of a query template override file.
type templatesFile struct {
	Templates []string `yaml:"templates"`
}

// LoadTemplates reads query templates from a YAML file. Each template must
// contain exactly one %s placeholder for the company name.
func LoadTemplates(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "news: read templates %s", path)
	}

	var f templatesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "news: parse templates %s", path)
	}
	if len(f.Templates) == 0 {
		return nil, eris.Errorf("news: %s contains no templates", path)
	}
	return f.Templates, nil
}
