// Copyright 2024 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package report writes a textproto summary of a resource merge, recording
// for each package how many entries were kept, made non-final, or dropped
// because they were missing from the final link.
//
// The schema is equivalent to:
//
//	message MergeReport {
//	  optional string main_r_txt = 1;
//	  optional int32 canonical_entries = 2;
//	  repeated PackageReport packages = 3;
//	}
//
//	message PackageReport {
//	  optional string package_name = 1;
//	  optional string r_txt = 2;
//	  optional int32 final_entries = 3;
//	  optional int32 non_final_entries = 4;
//	  optional int32 dropped_entries = 5;
//	  repeated string dropped = 6;
//	}
package report

import (
	"fmt"
	"io/ioutil"

	"android/resources/resmerge"
	"android/resources/rtxt"

	"github.com/google/blueprint/pathtools"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

func field(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type,
	label descriptorpb.FieldDescriptorProto_Label) *descriptorpb.FieldDescriptorProto {

	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Type:   typ.Enum(),
		Label:  label.Enum(),
	}
}

const (
	optional = descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	repeated = descriptorpb.FieldDescriptorProto_LABEL_REPEATED

	typeString  = descriptorpb.FieldDescriptorProto_TYPE_STRING
	typeInt32   = descriptorpb.FieldDescriptorProto_TYPE_INT32
	typeMessage = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
)

func reportFileDescriptor() *descriptorpb.FileDescriptorProto {
	packages := field("packages", 3, typeMessage, repeated)
	packages.TypeName = proto.String(".resource_merge.PackageReport")

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("resource_merge/report.proto"),
		Package: proto.String("resource_merge"),
		Syntax:  proto.String("proto2"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("MergeReport"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("main_r_txt", 1, typeString, optional),
					field("canonical_entries", 2, typeInt32, optional),
					packages,
				},
			},
			{
				Name: proto.String("PackageReport"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("package_name", 1, typeString, optional),
					field("r_txt", 2, typeString, optional),
					field("final_entries", 3, typeInt32, optional),
					field("non_final_entries", 4, typeInt32, optional),
					field("dropped_entries", 5, typeInt32, optional),
					field("dropped", 6, typeString, repeated),
				},
			},
		},
	}
}

var (
	mergeReportDescriptor   protoreflect.MessageDescriptor
	packageReportDescriptor protoreflect.MessageDescriptor
)

func init() {
	fd, err := protodesc.NewFile(reportFileDescriptor(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Errorf("invalid merge report descriptor: %w", err))
	}
	mergeReportDescriptor = fd.Messages().ByName("MergeReport")
	packageReportDescriptor = fd.Messages().ByName("PackageReport")
}

// NewMergeReport returns an empty MergeReport message, for example to
// unmarshal a report into.
func NewMergeReport() *dynamicpb.Message {
	return dynamicpb.NewMessage(mergeReportDescriptor)
}

func set(m *dynamicpb.Message, name string, v protoreflect.Value) {
	m.Set(m.Descriptor().Fields().ByName(protoreflect.Name(name)), v)
}

// Build creates a MergeReport for result. isFinal decides whether a kept entry
// is counted as final or non-final.
func Build(mainRTxt string, result *resmerge.Result, isFinal func(rtxt.Entry) bool) *dynamicpb.Message {
	report := NewMergeReport()
	set(report, "main_r_txt", protoreflect.ValueOfString(mainRTxt))
	set(report, "canonical_entries", protoreflect.ValueOfInt32(int32(result.Canonical.Len())))

	packages := report.Mutable(mergeReportDescriptor.Fields().ByName("packages")).List()
	for _, p := range result.Packages {
		pr := dynamicpb.NewMessage(packageReportDescriptor)
		set(pr, "package_name", protoreflect.ValueOfString(p.Name))
		set(pr, "r_txt", protoreflect.ValueOfString(p.RTxt))

		var final, nonFinal int32
		for _, t := range p.Types() {
			for _, e := range p.ByType[t] {
				if isFinal(e) {
					final++
				} else {
					nonFinal++
				}
			}
		}
		set(pr, "final_entries", protoreflect.ValueOfInt32(final))
		set(pr, "non_final_entries", protoreflect.ValueOfInt32(nonFinal))
		set(pr, "dropped_entries", protoreflect.ValueOfInt32(int32(len(p.Dropped))))

		if len(p.Dropped) > 0 {
			dropped := pr.Mutable(packageReportDescriptor.Fields().ByName("dropped")).List()
			for _, k := range p.Dropped {
				dropped.Append(protoreflect.ValueOfString(k.ResourceType + "/" + k.Name))
			}
		}

		packages.Append(protoreflect.ValueOfMessage(pr))
	}

	return report
}

// Write writes message to output as a textproto, optionally leaving the file
// unmodified if it was already up to date.
func Write(output string, message proto.Message, writeIfChanged bool) error {
	marshaller := prototext.MarshalOptions{Multiline: true}
	data, err := marshaller.Marshal(message)
	if err != nil {
		return fmt.Errorf("error marshalling textproto: %w", err)
	}

	if writeIfChanged {
		err = pathtools.WriteFileIfChanged(output, data, 0666)
	} else {
		err = ioutil.WriteFile(output, data, 0666)
	}

	if err != nil {
		return fmt.Errorf("error writing to %s: %w", output, err)
	}

	return nil
}
