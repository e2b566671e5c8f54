// Package config provides configuration parsing for formkit.
//
// Server configuration is stored in formkit.json (or formkit.yaml) and
// controls the HTTP server, the default form options and observability.
// Form definitions are separate files describing the fields of one form.
// Both formats are accepted for both files and chosen by extension.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "addr": ":8080",
//	    "readTimeout": "10s",
//	    "writeTimeout": "10s",
//	    "allowedOrigins": ["https://app.example.com"]
//	  },
//	  "form": {
//	    "classPrefix": "t",
//	    "strictNames": false,
//	    "options": {
//	      "labelAlign": "top",
//	      "scrollToFirstError": "smooth",
//	      "resetType": "initial"
//	    }
//	  },
//	  "metrics": {"enabled": true, "namespace": "formkit"},
//	  "tracing": {"enabled": false, "tracerName": "formkit"},
//	  "definition": "./signup.yaml"
//	}
//
// # Definition File Structure
//
//	name: signup
//	fields:
//	  - name: email
//	    label: Email
//	    rules: required,email
//	  - name: age
//	    type: integer
//	    rules: min=18
//	values:
//	  email: someone@example.com
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	def, err := config.LoadDefinition(cfg.DefinitionPath())
package config
