// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package via

import (
	"reflect"
	"testing"

	"github.com/viaduct-tools/viaduct/lib/ref"
)

func mergeConfig() Config {
	return Config{
		SpaceID:             ref.MustParseRoomID("!space:example.org"),
		MinMembersPerServer: 2,
		MaxCommonServers:    5,
		OptimalViaServers:   3,
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name      string
		config    func(Config) Config
		members   []ref.ServerName
		common    []ref.ServerName
		authority []ref.ServerName
		want      []string
	}{
		{
			name:    "frequency and authority union",
			members: servers("a.example", "a.example", "b.example"),
			common:  servers("a.example"),
			authority: servers("b.example"),
			want:    []string{"a.example", "b.example"},
		},
		{
			name:      "duplicates collapse keeping first source",
			members:   servers("a.example", "a.example"),
			common:    servers("a.example"),
			authority: servers("a.example"),
			want:      []string{"a.example"},
		},
		{
			name: "allow-list leads when hosted",
			config: func(c Config) Config {
				c.AllowedServers = servers("trusted.example")
				return c
			},
			members: servers("trusted.example", "a.example", "a.example"),
			common:  servers("a.example"),
			want:    []string{"trusted.example", "a.example"},
		},
		{
			name: "allow-list server without members excluded",
			config: func(c Config) Config {
				c.AllowedServers = servers("ghost.example")
				return c
			},
			members: servers("a.example", "a.example"),
			common:  servers("a.example"),
			want:    []string{"a.example"},
		},
		{
			name: "relaxation fills toward optimum",
			config: func(c Config) Config {
				c.RelaxToReachOptimum = true
				return c
			},
			members: servers("a.example", "a.example", "b.example", "c.example"),
			common:  servers("a.example"),
			want:    []string{"a.example", "b.example", "c.example"},
		},
		{
			name:    "relaxation disabled leaves shortfall",
			members: servers("a.example", "a.example", "b.example", "c.example"),
			common:  servers("a.example"),
			want:    []string{"a.example"},
		},
		{
			name: "relaxation cannot exceed distinct servers",
			config: func(c Config) Config {
				c.RelaxToReachOptimum = true
				return c
			},
			members: servers("a.example", "a.example"),
			common:  servers("a.example"),
			want:    []string{"a.example"},
		},
		{
			name: "relaxed frequency honors the larger of the two caps",
			config: func(c Config) Config {
				c.RelaxToReachOptimum = true
				c.MaxCommonServers = 1
				c.OptimalViaServers = 2
				return c
			},
			members: servers("a.example", "a.example", "b.example", "c.example"),
			common:  servers("a.example"),
			want:    []string{"a.example", "b.example"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := mergeConfig()
			if test.config != nil {
				config = test.config(config)
			}
			got := Servers(Merge(test.members, test.common, test.authority, config))
			if len(got) == 0 && len(test.want) == 0 {
				return
			}
			if !reflect.DeepEqual(serverStrings(got), test.want) {
				t.Errorf("Merge = %v, want %v", serverStrings(got), test.want)
			}
		})
	}
}

func TestMergeProvenance(t *testing.T) {
	config := mergeConfig()
	config.AllowedServers = servers("trusted.example")
	config.RelaxToReachOptimum = true
	config.OptimalViaServers = 4

	members := servers("trusted.example", "a.example", "a.example", "b.example", "c.example")
	candidates := Merge(members, servers("a.example"), servers("b.example"), config)

	want := map[string]Source{
		"trusted.example": SourceAllowList,
		"a.example":       SourceFrequency,
		"b.example":       SourceAuthority,
		"c.example":       SourceRelaxed,
	}
	if len(candidates) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(candidates), len(want))
	}
	for _, candidate := range candidates {
		if source, ok := want[candidate.Server.String()]; !ok {
			t.Errorf("unexpected candidate %s", candidate.Server)
		} else if candidate.Source != source {
			t.Errorf("%s attributed to %s, want %s",
				candidate.Server, candidate.Source, source)
		}
	}
}

func TestSourceString(t *testing.T) {
	if got := SourceAllowList.String(); got != "allow-list" {
		t.Errorf("SourceAllowList = %q", got)
	}
	if got := Source(42).String(); got != "unknown" {
		t.Errorf("unknown source = %q", got)
	}
}
