package main

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/agent-studio/internal/config"
	"github.com/JaimeStill/agent-studio/pkg/bridge"
)

func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	t.Setenv(config.EnvServiceEnv, "")

	dir := t.TempDir()
	base := filepath.Join(dir, "embeddings")

	content := fmt.Sprintf(`
[storage]
base_path = %q
max_upload_size = "1KB"

[bridge]
max_concurrency = 1

[logging]
level = "error"

[[seed.agents]]
id = "research_assistant"
name = "Research Assistant"
description = "Finds and summarizes literature"
capabilities = ["literature_search", "summarization"]

[[seed.agents]]
id = "code_reviewer"
name = "Code Reviewer"
capabilities = ["review"]
`, base)

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path, base
}

func responses(t *testing.T, out *bytes.Buffer) []bridge.Response {
	t.Helper()
	var result []bridge.Response
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		var resp bridge.Response
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response %q: %v", scanner.Text(), err)
		}
		result = append(result, resp)
	}
	return result
}

func TestRun_ServesBridgeSession(t *testing.T) {
	path, base := writeConfig(t)

	payload := base64.StdEncoding.EncodeToString([]byte("quarterly report"))
	in := strings.Join([]string{
		`{"id":1,"command":"listAgents"}`,
		`{"id":2,"command":"createAgent","args":{"agent":{"name":"Writer","capabilities":["write"]}}}`,
		`{"id":3,"command":"createAgent","args":{"agent":{"name":"Writer"}}}`,
		`{"id":4,"command":"uploadAndEmbedFile","args":{"agent_id":"research_assistant","file_name":"report.txt","bytes":"` + payload + `"}}`,
		`{"id":5,"command":"listAgentEmbeddings","args":{"agent_id":"research_assistant"}}`,
		`{"id":6,"command":"searchAgentEmbeddings","args":{"agent_id":"research_assistant","query":"quarterly report"}}`,
		`{"id":7,"command":"getAgent","args":{"id":"nope"}}`,
		`{"id":8,"command":"unknownCommand"}`,
	}, "\n")

	var out, logs bytes.Buffer
	if err := run([]string{"--config", path}, strings.NewReader(in), &out, &logs); err != nil {
		t.Fatalf("run() failed: %v\nlogs:\n%s", err, logs.String())
	}

	got := responses(t, &out)
	if len(got) != 8 {
		t.Fatalf("got %d responses, want 8:\n%s", len(got), out.String())
	}

	var seeded []map[string]any
	json.Unmarshal(got[0].Result, &seeded)
	if len(seeded) != 2 {
		t.Errorf("listAgents returned %d seeded agents, want 2", len(seeded))
	}

	if got[1].Error != nil || string(got[1].Result) != "null" {
		t.Errorf("createAgent = %+v, want null result", got[1])
	}
	if got[2].Error == nil || got[2].Error.Kind != bridge.KindConflict {
		t.Errorf("duplicate createAgent = %+v, want Conflict", got[2].Error)
	}
	if got[3].Error != nil {
		t.Errorf("uploadAndEmbedFile error = %+v", got[3].Error)
	}

	data, err := os.ReadFile(filepath.Join(base, "research_assistant", "report.txt"))
	if err != nil || string(data) != "quarterly report" {
		t.Errorf("uploaded file = %q, %v", data, err)
	}

	if string(got[4].Result) != `["report.txt"]` {
		t.Errorf("listAgentEmbeddings = %s, want [\"report.txt\"]", got[4].Result)
	}

	var matches []map[string]any
	json.Unmarshal(got[5].Result, &matches)
	if len(matches) != 1 || matches[0]["file_name"] != "report.txt" {
		t.Errorf("searchAgentEmbeddings = %s", got[5].Result)
	}

	if got[6].Error == nil || got[6].Error.Kind != bridge.KindNotFound {
		t.Errorf("getAgent(nope) = %+v, want NotFound", got[6].Error)
	}
	if got[7].Error == nil || got[7].Error.Kind != bridge.KindNotFound {
		t.Errorf("unknown command = %+v, want NotFound", got[7].Error)
	}
}

func TestRun_NoSeed(t *testing.T) {
	path, _ := writeConfig(t)

	var out bytes.Buffer
	in := `{"id":1,"command":"listAgents"}`
	if err := run([]string{"--config", path, "--no-seed"}, strings.NewReader(in), &out, io.Discard); err != nil {
		t.Fatalf("run() failed: %v", err)
	}

	got := responses(t, &out)
	if len(got) != 1 || string(got[0].Result) != "[]" {
		t.Errorf("listAgents = %s, want []", out.String())
	}
}

func TestRun_ListCommands(t *testing.T) {
	path, _ := writeConfig(t)

	var out bytes.Buffer
	if err := run([]string{"--config", path, "--list-commands"}, strings.NewReader(""), &out, io.Discard); err != nil {
		t.Fatalf("run() failed: %v", err)
	}

	names := strings.Fields(out.String())
	want := []string{
		"changeAgentStatus", "createAgent", "deleteAgent", "getAgent", "listAgentEmbeddings",
		"listAgents", "searchAgentEmbeddings", "searchAgents", "updateAgent", "uploadAndEmbedFile",
	}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("commands = %v, want %v", names, want)
	}
}

func TestRun_UploadTooLarge(t *testing.T) {
	path, _ := writeConfig(t)

	payload := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("x"), 2000))
	in := `{"id":1,"command":"uploadAndEmbedFile","args":{"agent_id":"a","file_name":"big","bytes":"` + payload + `"}}`

	var out bytes.Buffer
	if err := run([]string{"--config", path}, strings.NewReader(in), &out, io.Discard); err != nil {
		t.Fatalf("run() failed: %v", err)
	}

	got := responses(t, &out)
	if len(got) != 1 || got[0].Error == nil || got[0].Error.Kind != bridge.KindInvalidInput {
		t.Errorf("oversized upload = %s, want InvalidInput", out.String())
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv(config.EnvServiceEnv, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[embedder]\nprovider = \"magic\"\n"), 0644)

	if err := run([]string{"--config", path}, strings.NewReader(""), io.Discard, io.Discard); err == nil {
		t.Error("run() succeeded with invalid config, want error")
	}
}

func TestRun_UnexpectedArgument(t *testing.T) {
	if err := run([]string{"serve"}, strings.NewReader(""), io.Discard, io.Discard); err == nil {
		t.Error("run() accepted positional argument, want error")
	}
}
