package yaml

import (
	"testing"
)

func TestValidateSchemaHeaderFromBytes(t *testing.T) {
	cases := []struct {
		name         string
		content      string
		expectedType string
		wantErr      bool
	}{
		{
			name:         "valid run record",
			content:      "schema_version: 1\nfile_type: run_record\n",
			expectedType: "run_record",
			wantErr:      false,
		},
		{
			name:         "valid permission state",
			content:      "schema_version: 1\nfile_type: permission_state\n",
			expectedType: "",
			wantErr:      false,
		},
		{
			name:         "missing file_type",
			content:      "schema_version: 1\n",
			expectedType: "",
			wantErr:      true,
		},
		{
			name:         "unknown file_type",
			content:      "schema_version: 1\nfile_type: queue_task\n",
			expectedType: "",
			wantErr:      true,
		},
		{
			name:         "version too new",
			content:      "schema_version: 99\nfile_type: run_record\n",
			expectedType: "run_record",
			wantErr:      true,
		},
		{
			name:         "version below one",
			content:      "schema_version: 0\nfile_type: run_record\n",
			expectedType: "run_record",
			wantErr:      true,
		},
		{
			name:         "type mismatch",
			content:      "schema_version: 1\nfile_type: run_record\n",
			expectedType: "permission_state",
			wantErr:      true,
		},
		{
			name:         "not yaml",
			content:      "{{{",
			expectedType: "",
			wantErr:      true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSchemaHeaderFromBytes([]byte(tc.content), tc.expectedType)
			if (err != nil) != tc.wantErr {
				t.Errorf("got err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}
