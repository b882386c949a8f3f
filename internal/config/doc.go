// Package config loads churnlens settings and resolves the directories a
// run reads from and writes to.
//
// Load layers three sources, later ones winning:
//
//	Default()                 built-in values
//	churnlens.yaml            or the file given with --config
//	CHURN_<SECTION>_<FIELD>   environment overrides
//
// A minimal file:
//
//	dataset:
//	  path: data/European_Bank.csv
//	analysis:
//	  high_value_threshold: 100000
//	  dimensions: [geography, gender, age_group, activity]
//	report:
//	  output_dir: reports
//	  formats: [csv, json, txt]
//
// The same settings from the environment:
//
//	CHURN_DATASET_PATH=data/European_Bank.csv
//	CHURN_REPORT_FORMATS=csv,txt
//	CHURN_LOGGING_LEVEL=debug
//
// Validate runs go-playground/validator over the struct tags; Load refuses
// a configuration that fails it.
package config
