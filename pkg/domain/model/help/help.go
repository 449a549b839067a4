package help

import (
	_ "embed"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

//go:embed help.yaml
var defaultContent []byte

type FAQItem struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

type Content struct {
	Glossary map[string]string `json:"glossary" yaml:"glossary"`
	FAQItems []FAQItem         `json:"faqItems" yaml:"faqItems"`
}

func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, goerr.Wrap(err, "failed to decode help content")
	}
	if len(c.Glossary) == 0 && len(c.FAQItems) == 0 {
		return nil, goerr.New("help content is empty")
	}
	for i, item := range c.FAQItems {
		if item.Question == "" || item.Answer == "" {
			return nil, goerr.New("incomplete FAQ item", goerr.V("index", i))
		}
	}
	if c.Glossary == nil {
		c.Glossary = map[string]string{}
	}
	if c.FAQItems == nil {
		c.FAQItems = []FAQItem{}
	}
	return &c, nil
}

var Default = sync.OnceValue(func() *Content {
	c, err := Parse(defaultContent)
	if err != nil {
		panic(err)
	}
	return c
})
