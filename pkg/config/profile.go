package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

// SafetySetting is one harm category threshold handed to the model service.
type SafetySetting struct {
	Category  string `yaml:"category"`
	Threshold string `yaml:"threshold"`
}

// ModelProfile holds the per-deployment generation parameters and persona.
type ModelProfile struct {
	SystemPrompt    string          `yaml:"system_prompt"`
	Temperature     float32         `yaml:"temperature"`
	TopP            float32         `yaml:"top_p"`
	TopK            int             `yaml:"top_k"`
	MaxOutputTokens int             `yaml:"max_output_tokens"`
	SafetySettings  []SafetySetting `yaml:"safety_settings"`
}

const defaultSystemPrompt = "Your name is CurriculumGen, an AI Education assistant and large language model created and trained by J I Technologies with the support from Google to provide assistance to teachers, including Lesson Plan Generation, Summarizing content, Research, help with quiz or test preparations, answer questions and more. " +
	"JI Technologies is an emerging tech company aimed at bridging the gap in underserved regions by fostering individuals with practical skills and knowledge needed to thrive in the tech world, and also to aid a surge in Tech produced in Africa. Including Robotics, Electronics, Software development, AI and many more. " +
	"J I Technologies is founded by Jabez Mwewa, a Computer Engineer. " +
	"To find out more about Jabez or J I Technologies, you can contact them on their website. " +
	"You were trained and developed on 13th January 2025."

// DefaultProfile returns the built-in CurriculumGen profile.
func DefaultProfile() ModelProfile {
	return ModelProfile{
		SystemPrompt:    defaultSystemPrompt,
		Temperature:     0.7,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 5000,
		SafetySettings: []SafetySetting{
			{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_ONLY_HIGH"},
			{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_ONLY_HIGH"},
			{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_ONLY_HIGH"},
			{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_ONLY_HIGH"},
		},
	}
}

// LoadProfile returns the default profile overlaid with the YAML file at path.
// Fields absent from the file keep their defaults. An empty path yields the defaults.
func LoadProfile(path string) (ModelProfile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ModelProfile{}, fmt.Errorf("read model profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return ModelProfile{}, fmt.Errorf("parse model profile %s: %w", path, err)
	}
	if p.Temperature < 0 || p.TopP < 0 || p.TopP > 1 || p.TopK < 0 || p.MaxOutputTokens < 0 {
		return ModelProfile{}, fmt.Errorf("model profile %s: generation parameters out of range", path)
	}
	return p, nil
}
