package config

import "io"

// sampleJSON is the example configuration emitted by
// `procvd run --sample-config` for the json format. JSON has no comment
// syntax, and no explanatory text is printed with it.
const sampleJSON = `{
  "baseDirectory": ".",
  "defaults": {
    "restartMode": "process",
    "restartPolicy": { "maxRestarts": null, "restartDelayMs": 1000 },
    "outputMode": "file",
    "outputDir": "logs"
  },
  "groupSets": {
    "backend": {
      "env": { "LOG_LEVEL": "info" }
    }
  },
  "groups": {
    "web": {
      "groupSets": ["backend"],
      "restartMode": "group",
      "processes": {
        "server": {
          "path": "/usr/bin/my-web-server",
          "args": ["--port", "8080"]
        }
      }
    },
    "worker": {
      "groupSets": ["backend"],
      "dependencies": ["web"],
      "restartPolicy": { "maxRestarts": 5, "restartDelayMs": 2000 },
      "processes": {
        "queue": {
          "command": "my-worker --queue=default",
          "env": { "WORKER_ID": "1" }
        }
      }
    }
  }
}
`

const sampleINI = `; baseDirectory is resolved against the current working directory.
baseDirectory = .

[defaults]
restartMode = process
restartDelayMs = 1000
outputMode = file
outputDir = logs

[groupset.backend]
env.LOG_LEVEL = info

[group.web]
groupSets = backend
restartMode = group

[process.web.server]
path = /usr/bin/my-web-server
args = --port,8080

[group.worker]
groupSets = backend
dependencies = web
maxRestarts = 5
restartDelayMs = 2000

[process.worker.queue]
command = my-worker --queue=default
env.WORKER_ID = 1
`

// WriteSample writes an example configuration in the given format to w:
// the INI sample for "ini", the JSON sample for any other value. Only the
// INI sample carries a comment line.
func WriteSample(w io.Writer, format string) error {
	var body string
	switch format {
	case "ini":
		body = sampleINI
	default:
		body = sampleJSON
	}
	_, err := io.WriteString(w, body)
	return err
}
