package core

import (
	"testing"

	"hrkpi/internal/domain/auth"
)

func sampleEmployee() *Employee {
	pnos := "PN-123"
	return &Employee{
		ID:         "emp-1",
		PNOSNumber: &pnos,
		User:       &LinkedUser{ID: "u1", Name: "Dea", Email: "dea@example.com", Role: auth.RoleUser},
	}
}

func TestFilterEmployeeFieldsAdmin(t *testing.T) {
	emp := sampleEmployee()
	FilterEmployeeFields(emp, auth.UserContext{UserID: "admin", Role: auth.RoleAdmin}, false)

	if emp.PNOSNumber == nil || emp.User.Email == "" {
		t.Fatal("admin should retain personal fields")
	}
}

func TestFilterEmployeeFieldsSelf(t *testing.T) {
	emp := sampleEmployee()
	FilterEmployeeFields(emp, auth.UserContext{UserID: "u1", Role: auth.RoleUser}, true)

	if emp.PNOSNumber == nil || emp.User.Email == "" {
		t.Fatal("employee should see their own personal fields")
	}
}

func TestFilterEmployeeFieldsOtherUser(t *testing.T) {
	emp := sampleEmployee()
	original := emp.User
	FilterEmployeeFields(emp, auth.UserContext{UserID: "u2", Role: auth.RoleUser}, false)

	if emp.PNOSNumber != nil {
		t.Fatal("expected pnos number to be hidden")
	}
	if emp.User.Email != "" {
		t.Fatal("expected linked user email to be hidden")
	}
	if original.Email == "" {
		t.Fatal("filter must not mutate the shared linked user")
	}
	if emp.User.Name != "Dea" {
		t.Fatal("expected linked user name to stay visible")
	}
}

func TestEmployeeLabel(t *testing.T) {
	number := "EMP-7"
	tests := []struct {
		name string
		emp  Employee
		want string
	}{
		{name: "linked user", emp: Employee{ID: "e1", EmployeeNumber: &number, User: &LinkedUser{Name: "Dea"}}, want: "Dea"},
		{name: "employee number", emp: Employee{ID: "e1", EmployeeNumber: &number}, want: "EMP-7"},
		{name: "id fallback", emp: Employee{ID: "e1"}, want: "e1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.emp.Label(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
