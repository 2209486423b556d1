// Package harness runs compatibility scenarios against the engine.
//
// A scenario loads compatibility sections, applies them for a sequence of
// content digests, and checks the flag state after each apply and at the
// end of the run.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	specs:
//	  - compat.cue
//	sections:
//	  - name: inline
//	    hashes: [ABC123]
//	    on: [comp_jump]
//	report_prefix: map07
//	steps:
//	  - digest: ABC123
//	    expect:
//	      on: [comp_aircontrol]
//	      off: []
//	      discarded: []
//	assertions:
//	  - type: flag_state
//	    flag: comp_jump
//	    state: "on"
//	  - type: registry_entries
//	    digest: ABC123
//	    intent: "on"
//	    names: [comp_jump]
//
// Spec paths are resolved relative to the scenario file. Inline sections
// are ingested after the spec files.
//
// # Assertion Types
//
//   - flag_state: the final state of one flag is on, off or unset
//   - registry_entries: the exact names stored for a digest and intent
//   - discard_count: total names discarded across all steps
//   - ingest_stats: the counters returned by ingestion
//
// # Deterministic Testing
//
// Report IDs come from testutil.CountingIDGenerator and engine logs are
// discarded, so the same scenario always produces the same trace. Traces
// are compared against golden files with RunWithGolden.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/alias.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
