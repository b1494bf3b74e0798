// Package harness runs end-to-end cleaning scenarios described in YAML.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	table:
//	  - '\x80\x81:?'
//	  - '\x82:TODO'
//	input: 'A\x80\x81B\x82C'
//	expect:
//	  output: 'A?B\x82C'
//	  applied: {1: 1}
//	  discovered: ['\x82']
//	  table:
//	    - '\x80\x81:?'
//	    - '\x82:TODO'
//
// Table lines use the persisted table format verbatim. Input and expected
// output decode \xHH to a raw byte, so use single-quoted or plain YAML
// scalars: YAML's own double-quoted \x escapes produce code points, not
// bytes.
//
// # Execution
//
// Each scenario gets a fresh table parsed from its lines. The harness
// applies it, discovers what remains, writes the table back to a buffer and
// checks every expectation that is present. Nothing touches the disk.
//
// # Usage
//
//	scenarios, err := harness.LoadDir("testdata/scenarios")
//	...
//	result, err := harness.Run(scenarios[0])
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
