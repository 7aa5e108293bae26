package markdown

import (
	"bytes"
	"maps"
	"strings"

	"github.com/adrg/frontmatter"
)

// FrontMatter holds the metadata block of a blog post. Known keys are
// lifted into fields; everything else lands in Custom. Raw carries every
// key that was present in the block.
type FrontMatter struct {
	Title     string
	Excerpt   string
	Author    string
	Date      string
	ImageURL  string
	ImageHint string
	Published bool
	Tags      []string
	Custom    map[string]any
	Raw       map[string]any
}

// ParseFrontMatter splits source into its metadata block and the Markdown
// body. A file without a block yields an empty FrontMatter and the whole
// file as body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var env frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return FrontMatter{}, nil, err
	}
	return env.frontMatter(), body, nil
}

type frontMatterEnvelope struct {
	Title     *string        `yaml:"title"`
	Excerpt   *string        `yaml:"excerpt"`
	Author    *string        `yaml:"author"`
	Date      *string        `yaml:"date"`
	ImageURL  *string        `yaml:"imageUrl"`
	ImageHint *string        `yaml:"imageHint"`
	Published *truthy        `yaml:"published"`
	Tags      *tagList       `yaml:"tags"`
	Custom    map[string]any `yaml:",inline"`
}

func (env frontMatterEnvelope) frontMatter() FrontMatter {
	fm := FrontMatter{
		Custom: maps.Clone(env.Custom),
		Raw:    maps.Clone(env.Custom),
	}
	if fm.Custom == nil {
		fm.Custom = map[string]any{}
	}
	if fm.Raw == nil {
		fm.Raw = map[string]any{}
	}

	setString := func(key string, src *string, dst *string) {
		if src == nil {
			return
		}
		*dst = strings.TrimSpace(*src)
		fm.Raw[key] = *src
	}
	// a blank title is still a title
	if env.Title != nil {
		fm.Title = *env.Title
		fm.Raw["title"] = *env.Title
	}
	setString("excerpt", env.Excerpt, &fm.Excerpt)
	setString("author", env.Author, &fm.Author)
	setString("date", env.Date, &fm.Date)
	setString("imageUrl", env.ImageURL, &fm.ImageURL)
	setString("imageHint", env.ImageHint, &fm.ImageHint)

	if env.Published != nil {
		fm.Published = bool(*env.Published)
		fm.Raw["published"] = fm.Published
	}
	if env.Tags != nil {
		fm.Tags = append([]string(nil), (*env.Tags)...)
		fm.Raw["tags"] = append([]string(nil), fm.Tags...)
	}
	return fm
}

// truthy reads any scalar as a flag: non-empty strings and non-zero
// numbers count as true.
type truthy bool

func (f *truthy) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*f = false
	case bool:
		*f = truthy(v)
	case string:
		*f = v != ""
	case int:
		*f = v != 0
	case int64:
		*f = v != 0
	case uint64:
		*f = v != 0
	case float64:
		*f = v != 0
	default:
		*f = true
	}
	return nil
}

// tagList accepts either a YAML sequence or a single comma separated string.
type tagList []string

func (t *tagList) UnmarshalYAML(unmarshal func(any) error) error {
	var list []string
	if err := unmarshal(&list); err == nil {
		*t = cleanTags(list)
		return nil
	}
	var single string
	if err := unmarshal(&single); err != nil {
		return err
	}
	*t = cleanTags(strings.Split(single, ","))
	return nil
}

func cleanTags(in []string) tagList {
	out := make(tagList, 0, len(in))
	for _, tag := range in {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
